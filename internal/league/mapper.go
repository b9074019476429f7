package league

// PlayerRef is the minimal participant projection embedded in match views.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatchView is a match with participant names joined in. It exists only on
// the read path; the stored Match keeps bare player ids.
type MatchView struct {
	ID           string     `json:"id"`
	MatchDate    string     `json:"match_date"`
	TeamAPlayer1 PlayerRef  `json:"team_a_player1"`
	TeamAPlayer2 PlayerRef  `json:"team_a_player2"`
	TeamBPlayer1 PlayerRef  `json:"team_b_player1"`
	TeamBPlayer2 PlayerRef  `json:"team_b_player2"`
	Sets         []SetScore `json:"sets"`
	WinnerTeam   Side       `json:"winner_team"`
	MatchType    string     `json:"match_type"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    int64      `json:"created_at"`
}

// ExpandMatches projects raw matches into views, resolving participant ids
// to display names through the store in one batched lookup.
func ExpandMatches(matches []*Match, store LeagueStore) ([]MatchView, error) {
	if len(matches) == 0 {
		return []MatchView{}, nil
	}

	idSet := make(map[string]struct{})
	for _, m := range matches {
		for _, id := range m.ParticipantIDs() {
			idSet[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	players, err := store.GetPlayers(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	ref := func(id string) PlayerRef {
		return PlayerRef{ID: id, Name: names[id]}
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, MatchView{
			ID:           m.ID,
			MatchDate:    m.MatchDate,
			TeamAPlayer1: ref(m.TeamAPlayer1ID),
			TeamAPlayer2: ref(m.TeamAPlayer2ID),
			TeamBPlayer1: ref(m.TeamBPlayer1ID),
			TeamBPlayer2: ref(m.TeamBPlayer2ID),
			Sets:         m.Sets,
			WinnerTeam:   m.WinnerTeam,
			MatchType:    m.MatchType,
			Notes:        m.Notes,
			CreatedAt:    m.CreatedAt,
		})
	}
	return views, nil
}
