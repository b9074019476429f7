package notifier

import (
	"sync"

	"github.com/courtside/matchpoint/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(match *league.MatchView, dryRun bool) error
	SendRankingsFunc           func(players []league.Player, dryRun bool) error

	// Call records
	SendResultNotificationCalls []*league.MatchView
	SendRankingsCalls           [][]league.Player
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendRankingsCalls = nil
}

func (m *Mock) SendResultNotification(match *league.MatchView, dryRun bool) error {
	m.mu.Lock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, match)
	fn := m.SendResultNotificationFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(match, dryRun)
	}
	return nil
}

func (m *Mock) SendRankings(players []league.Player, dryRun bool) error {
	m.mu.Lock()
	m.SendRankingsCalls = append(m.SendRankingsCalls, players)
	fn := m.SendRankingsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(players, dryRun)
	}
	return nil
}
