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

func NewServer(store league.LeagueStore, rec *recorder.Recorder, authSvc auth.AuthService, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Recorder:       rec,
		Auth:           authSvc,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	server.handler = Chain(server.Router, paramsMiddleware, server.accessGate)
	return server
}

func (s *Server) routes() {
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", s.HealthCheckHandler())
	s.Router.Handle("/clear", s.ClearStoreHandler())

	// Auth endpoints are open by design; the gate turns everything else away.
	s.Router.Handle("POST /api/auth/register", s.RegisterHandler())
	s.Router.Handle("POST /api/auth/login", s.LoginHandler())
	s.Router.Handle("POST /api/auth/logout", s.LogoutHandler())

	s.Router.Handle("POST /api/matches", s.RecordMatchHandler())
	s.Router.Handle("GET /api/matches/recent", s.RecentMatchesHandler())
	s.Router.Handle("GET /api/matches/recent/{id}", s.PlayerMatchesHandler())
	s.Router.Handle("GET /api/players/stats", s.PlayerStatsHandler())
	s.Router.Handle("GET /api/players/stats/{id}", s.PlayerStatsByIDHandler())
	s.Router.Handle("GET /api/rankings", s.RankingsHandler())
	s.Router.Handle("GET /api/partners/{id}", s.PartnerStatsHandler())

	// Pub/Sub push subscription endpoint.
	s.Router.Handle("POST /notify-result", s.NotifyResultHandler())

	// Slack slash command.
	s.Router.Handle("POST /slack/command/rankings", s.RankingsCommandHandler())

	// Page routes. These serve the page payloads; the access gate decides
	// who gets to see them.
	s.Router.Handle("GET /{$}", s.HomePageHandler())
	s.Router.Handle("GET /login", s.LoginPageHandler())
	s.Router.Handle("GET /register", s.RegisterPageHandler())
	s.Router.Handle("GET /dashboard", s.DashboardPageHandler())
	s.Router.Handle("GET /matches", s.MatchesPageHandler())
	s.Router.Handle("GET /rankings", s.RankingsPageHandler())
	s.Router.Handle("GET /profile", s.ProfilePageHandler())
	s.Router.Handle("GET /profile/{id}", s.PlayerProfilePageHandler())
}

// ServeHTTP wraps the router with the request middleware and the access
// gate so every route, known or not, passes through them.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
