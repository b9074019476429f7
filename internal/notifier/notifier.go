package notifier

import (
	"github.com/courtside/matchpoint/internal/league"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded match results
	SendResultNotification(match *league.MatchView, dryRun bool) error
	// For the current standings
	SendRankings(players []league.Player, dryRun bool) error
}
