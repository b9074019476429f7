package league

import (
	"database/sql"
	"errors"
	"sync"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Side identifies one of the two competing pairs in a doubles match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Player is a club member's profile and aggregated record.
type Player struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Rating        float64 `json:"rating"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

// User is a registered account. Authentication data lives here; the
// public profile lives on the linked Player.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	PlayerID     string
	CreatedAt    int64
}

// SetScore is one set's score pair, side A first.
type SetScore struct {
	TeamA int `json:"team_a"`
	TeamB int `json:"team_b"`
}

// Match is a recorded doubles match. Participants are referenced by
// player id; display names are joined in at read time (see mapper.go).
type Match struct {
	ID             string     `json:"id"`
	MatchDate      string     `json:"match_date"`
	TeamAPlayer1ID string     `json:"team_a_player1_id"`
	TeamAPlayer2ID string     `json:"team_a_player2_id"`
	TeamBPlayer1ID string     `json:"team_b_player1_id"`
	TeamBPlayer2ID string     `json:"team_b_player2_id"`
	Sets           []SetScore `json:"sets"`
	WinnerTeam     Side       `json:"winner_team"`
	MatchType      string     `json:"match_type"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      int64      `json:"created_at"`
}

// ParticipantIDs returns the four player ids in slot order.
func (m *Match) ParticipantIDs() []string {
	return []string{m.TeamAPlayer1ID, m.TeamAPlayer2ID, m.TeamBPlayer1ID, m.TeamBPlayer2ID}
}

// SideIDs returns the pair of player ids on the given side.
func (m *Match) SideIDs(side Side) [2]string {
	if side == SideB {
		return [2]string{m.TeamBPlayer1ID, m.TeamBPlayer2ID}
	}
	return [2]string{m.TeamAPlayer1ID, m.TeamAPlayer2ID}
}

// PartnerStats is a player's record with one specific partner.
type PartnerStats struct {
	PartnerID     string  `json:"partner_id"`
	PartnerName   string  `json:"partner_name"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"win_percentage"`
}
