package league

import (
	"sync"
)

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc         func(playerID, name string) error
	GetPlayerFunc            func(playerID string) (*Player, error)
	GetPlayersFunc           func(playerIDs []string) ([]Player, error)
	IsKnownPlayerFunc        func(playerID string) bool
	GetRankingsFunc          func() ([]Player, error)
	CreateUserFunc           func(user User) error
	CreateUserWithPlayerFunc func(user User, playerName string) error
	GetUserByEmailFunc       func(email string) (*User, error)
	RecordMatchFunc          func(match *Match) error
	GetMatchFunc             func(matchID string) (*Match, error)
	GetRecentMatchesFunc     func(limit int) ([]*Match, error)
	GetPlayerMatchesFunc     func(playerID string, limit int) ([]*Match, error)
	GetPartnerStatsFunc      func(playerID string) ([]PartnerStats, error)
	ClearFunc                func()

	// Call records
	CreatePlayerCalls []struct {
		PlayerID string
		Name     string
	}
	CreateUserCalls           []User
	CreateUserWithPlayerCalls []struct {
		User User
		Name string
	}
	RecordMatchCalls []*Match
	GetPlayersCalls  [][]string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = nil
	m.CreateUserCalls = nil
	m.CreateUserWithPlayerCalls = nil
	m.RecordMatchCalls = nil
	m.GetPlayersCalls = nil
}

func (m *MockStore) CreatePlayer(playerID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = append(m.CreatePlayerCalls, struct {
		PlayerID string
		Name     string
	}{playerID, name})
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(playerID, name)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return []Player{}, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return true
}

func (m *MockStore) GetRankings() ([]Player, error) {
	if m.GetRankingsFunc != nil {
		return m.GetRankingsFunc()
	}
	return []Player{}, nil
}

func (m *MockStore) CreateUser(user User) error {
	m.mu.Lock()
	m.CreateUserCalls = append(m.CreateUserCalls, user)
	m.mu.Unlock()
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(user)
	}
	return nil
}

func (m *MockStore) CreateUserWithPlayer(user User, playerName string) error {
	m.mu.Lock()
	m.CreateUserWithPlayerCalls = append(m.CreateUserWithPlayerCalls, struct {
		User User
		Name string
	}{user, playerName})
	m.mu.Unlock()
	if m.CreateUserWithPlayerFunc != nil {
		return m.CreateUserWithPlayerFunc(user, playerName)
	}
	return nil
}

func (m *MockStore) GetUserByEmail(email string) (*User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, ErrNotFound
}

func (m *MockStore) RecordMatch(match *Match) error {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, match)
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetRecentMatches(limit int) ([]*Match, error) {
	if m.GetRecentMatchesFunc != nil {
		return m.GetRecentMatchesFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerMatches(playerID string, limit int) ([]*Match, error) {
	if m.GetPlayerMatchesFunc != nil {
		return m.GetPlayerMatchesFunc(playerID, limit)
	}
	return nil, nil
}

func (m *MockStore) GetPartnerStats(playerID string) ([]PartnerStats, error) {
	if m.GetPartnerStatsFunc != nil {
		return m.GetPartnerStatsFunc(playerID)
	}
	return []PartnerStats{}, nil
}

func (m *MockStore) Clear() {
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
