package league

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	CreatePlayer(playerID, name string) error
	GetPlayer(playerID string) (*Player, error)
	GetPlayers(playerIDs []string) ([]Player, error)
	IsKnownPlayer(playerID string) bool
	GetRankings() ([]Player, error)

	CreateUser(user User) error
	CreateUserWithPlayer(user User, playerName string) error
	GetUserByEmail(email string) (*User, error)

	RecordMatch(match *Match) error
	GetMatch(matchID string) (*Match, error)
	GetRecentMatches(limit int) ([]*Match, error)
	GetPlayerMatches(playerID string, limit int) ([]*Match, error)

	GetPartnerStats(playerID string) ([]PartnerStats, error)

	Clear()
}
