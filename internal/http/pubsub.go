package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/pubsub"
)

// pushEnvelope is the JSON wrapper Pub/Sub push subscriptions deliver.
// The payload itself is base64-encoded MessagePack.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}

func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		event := pubsub.MatchRecordedEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		match, err := s.Store.GetMatch(event.MatchID)
		if err != nil {
			log.Error("Failed to load match for notification", "error", err, "matchID", event.MatchID)
			// Acknowledge anyway, retrying will not make the match appear.
			w.Write([]byte("OK"))
			return
		}

		views, err := league.ExpandMatches([]*league.Match{match}, s.Store)
		if err != nil || len(views) == 0 {
			log.Error("Failed to expand match for notification", "error", err, "matchID", event.MatchID)
			w.Write([]byte("OK"))
			return
		}

		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendResultNotification(&views[0], isDryRun); err != nil {
			log.Error("Failed to send result notification", "error", err, "matchID", event.MatchID)
		}
		w.Write([]byte("OK"))
	}
}
