package http

import (
	"net/http"

	"github.com/courtside/matchpoint/internal/auth"
	"github.com/courtside/matchpoint/internal/config"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
	"github.com/courtside/matchpoint/internal/notifier"
	"github.com/courtside/matchpoint/internal/pubsub"
	"github.com/courtside/matchpoint/internal/recorder"
)

type Server struct {
	Store          league.LeagueStore
	Recorder       *recorder.Recorder
	Auth           auth.AuthService
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	handler        http.Handler
}
