package recorder

import (
	"fmt"

	"github.com/courtside/matchpoint/internal/league"
)

// Submission is a match result as entered by a user, before validation.
type Submission struct {
	MatchDate      string            `json:"match_date"`
	TeamAPlayer1ID string            `json:"team_a_player1_id"`
	TeamAPlayer2ID string            `json:"team_a_player2_id"`
	TeamBPlayer1ID string            `json:"team_b_player1_id"`
	TeamBPlayer2ID string            `json:"team_b_player2_id"`
	Sets           []league.SetScore `json:"sets"`
	MatchType      string            `json:"match_type,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

func (s *Submission) participantIDs() []string {
	return []string{s.TeamAPlayer1ID, s.TeamAPlayer2ID, s.TeamBPlayer1ID, s.TeamBPlayer2ID}
}

// ValidationError describes a single rejected field. Submissions fail on the
// first violation found, they are never partially persisted.
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s %s", e.Field, e.Rule)
}
