package recorder

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
	"github.com/courtside/matchpoint/internal/pubsub"
	"github.com/google/uuid"
)

const (
	minSets  = 1
	maxSets  = 5
	maxGames = 7
)

// Recorder turns validated submissions into persisted matches.
type Recorder struct {
	store   league.LeagueStore
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
}

// New creates a new Recorder.
func New(store league.LeagueStore, pubsub pubsub.PubSubClient, metrics metrics.Metrics) *Recorder {
	return &Recorder{
		store:   store,
		pubsub:  pubsub,
		metrics: metrics,
	}
}

// Record validates a submission, derives the winner and persists the match
// together with all player and partner counter updates. It returns the new
// match ID. A *ValidationError is returned for rejected input; nothing is
// persisted in that case.
func (r *Recorder) Record(sub *Submission) (*league.Match, error) {
	startTime := time.Now()

	if err := r.validate(sub); err != nil {
		r.metrics.IncValidationFailures()
		return nil, err
	}

	matchType := sub.MatchType
	if matchType == "" {
		matchType = "regular"
	}

	match := &league.Match{
		ID:             uuid.NewString(),
		MatchDate:      sub.MatchDate,
		TeamAPlayer1ID: sub.TeamAPlayer1ID,
		TeamAPlayer2ID: sub.TeamAPlayer2ID,
		TeamBPlayer1ID: sub.TeamBPlayer1ID,
		TeamBPlayer2ID: sub.TeamBPlayer2ID,
		Sets:           sub.Sets,
		WinnerTeam:     DeriveWinner(sub.Sets),
		MatchType:      matchType,
		Notes:          sub.Notes,
		CreatedAt:      time.Now().Unix(),
	}

	if err := r.store.RecordMatch(match); err != nil {
		return nil, fmt.Errorf("recording match: %w", err)
	}

	log.Info("Recorded match", "matchID", match.ID, "winner", match.WinnerTeam, "sets", len(match.Sets))
	r.metrics.IncMatchesRecorded()
	r.metrics.ObserveRecordDuration(time.Since(startTime).Seconds())

	// Notification fan-out is best effort, the match is already committed.
	r.pubsub.SendMessage(pubsub.TopicMatchRecorded, &pubsub.MatchRecordedEvent{MatchID: match.ID})

	return match, nil
}

func (r *Recorder) validate(sub *Submission) error {
	if sub.MatchDate == "" {
		return &ValidationError{Field: "match_date", Rule: "is required"}
	}

	fields := []string{"team_a_player1_id", "team_a_player2_id", "team_b_player1_id", "team_b_player2_id"}
	seen := make(map[string]bool, 4)
	for i, id := range sub.participantIDs() {
		if id == "" {
			return &ValidationError{Field: fields[i], Rule: "is required"}
		}
		if seen[id] {
			return &ValidationError{Field: fields[i], Rule: "appears more than once"}
		}
		seen[id] = true
		if !r.store.IsKnownPlayer(id) {
			return &ValidationError{Field: fields[i], Rule: "is not a known player"}
		}
	}

	if len(sub.Sets) < minSets || len(sub.Sets) > maxSets {
		return &ValidationError{Field: "sets", Rule: fmt.Sprintf("must contain between %d and %d sets", minSets, maxSets)}
	}
	for i, set := range sub.Sets {
		if set.TeamA < 0 || set.TeamA > maxGames || set.TeamB < 0 || set.TeamB > maxGames {
			return &ValidationError{Field: fmt.Sprintf("sets[%d]", i), Rule: fmt.Sprintf("games must be between 0 and %d", maxGames)}
		}
	}

	return nil
}
