package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtside/matchpoint/internal/auth"
	"github.com/courtside/matchpoint/internal/config"
	"github.com/courtside/matchpoint/internal/database"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
	"github.com/courtside/matchpoint/internal/notifier"
	"github.com/courtside/matchpoint/internal/pubsub"
	"github.com/courtside/matchpoint/internal/recorder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock()
	authSvc := auth.New(store, metricsSvc, time.Hour)
	rec := recorder.New(store, ps, metricsSvc)
	notif := notifier.NewMock()

	server := NewServer(store, rec, authSvc, notif, metricsSvc, metricsHandler, cfg, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, teardown
}

// registerTestUser registers a user through the API and returns the session token.
func registerTestUser(t *testing.T, server *Server, email, name string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "secret",
		"name":     name,
	})
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, "registration failed: %s", rr.Body.String())

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func addTestPlayers(t *testing.T, server *Server) {
	t.Helper()
	for i := 1; i <= 4; i++ {
		require.NoError(t, server.Store.CreatePlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i)))
	}
}

func submissionBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"match_date":        "2026-08-01",
		"team_a_player1_id": "p1",
		"team_a_player2_id": "p2",
		"team_b_player1_id": "p3",
		"team_b_player2_id": "p4",
		"sets":              []map[string]int{{"team_a": 6, "team_b": 4}, {"team_a": 4, "team_b": 6}, {"team_a": 7, "team_b": 5}},
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestRegisterAndLoginFlow(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")
	require.NotEmpty(t, token)

	// Registering the same email again conflicts.
	body, _ := json.Marshal(map[string]string{"email": "anna@example.com", "password": "x", "name": "Anna"})
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Login with the right password works and sets the cookie.
	body, _ = json.Marshal(map[string]string{"email": "anna@example.com", "password": "secret"})
	req = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// Wrong password is a 401.
	body, _ = json.Marshal(map[string]string{"email": "anna@example.com", "password": "nope"})
	req = httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// The session is gone; protected pages redirect again.
	req = httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRecordMatchHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/matches", submissionBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, "record failed: %s", rr.Body.String())

	var match league.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))
	assert.NotEmpty(t, match.ID)
	assert.Equal(t, league.SideA, match.WinnerTeam)

	// Counters moved for all four players.
	p1, err := server.Store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p1.MatchesPlayed)
	assert.Equal(t, 1, p1.Wins)

	p3, err := server.Store.GetPlayer("p3")
	require.NoError(t, err)
	assert.Equal(t, 1, p3.MatchesPlayed)
	assert.Equal(t, 1, p3.Losses)
}

func TestRecordMatchHandler_ValidationError(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	body, _ := json.Marshal(map[string]any{
		"match_date":        "2026-08-01",
		"team_a_player1_id": "p1",
		"team_a_player2_id": "p2",
		"team_b_player1_id": "p3",
		"team_b_player2_id": "p1",
		"sets":              []map[string]int{{"team_a": 6, "team_b": 4}},
	})
	req := httptest.NewRequest("POST", "/api/matches", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var vErr recorder.ValidationError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vErr))
	assert.Equal(t, "team_b_player2_id", vErr.Field)
}

func TestRecentMatchesHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/matches", submissionBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest("GET", "/api/matches/recent", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var views []league.MatchView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Player 1", views[0].TeamAPlayer1.Name)
	assert.Equal(t, "Player 4", views[0].TeamBPlayer2.Name)
}

func TestPlayerStatsHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("GET", "/api/players/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp playerStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Player)
	assert.Equal(t, "Anna Mork", resp.Player.Name)
	assert.Equal(t, 1500.0, resp.Player.Rating)
	assert.Len(t, resp.RecentMatches, 0)
}

func TestRankingsHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("GET", "/api/rankings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var players []league.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	// Four seeded players plus the registered one.
	assert.Len(t, players, 5)
}

func TestPartnerStatsHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/matches", submissionBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest("GET", "/api/partners/p1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats []league.PartnerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "p2", stats[0].PartnerID)
	assert.Equal(t, 1, stats[0].Wins)

	// Unknown players are a 404.
	req = httptest.NewRequest("GET", "/api/partners/ghost", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlayerStatsByIDHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/matches", submissionBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Another member's stats page, not the session player's.
	req = httptest.NewRequest("GET", "/api/players/stats/p3", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp playerStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Player)
	assert.Equal(t, "Player 3", resp.Player.Name)
	assert.Equal(t, 1, resp.Player.Losses)
	require.Len(t, resp.RecentMatches, 1)
	require.Len(t, resp.Partners, 1)
	assert.Equal(t, "p4", resp.Partners[0].PartnerID)

	// Unknown players are a 404.
	req = httptest.NewRequest("GET", "/api/players/stats/ghost", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlayerMatchesHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/matches", submissionBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest("GET", "/api/matches/recent/p2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var views []league.MatchView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Player 2", views[0].TeamAPlayer2.Name)

	// Unknown players are a 404.
	req = httptest.NewRequest("GET", "/api/matches/recent/ghost", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlayerProfilePage(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("GET", "/profile/p2", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Page string        `json:"page"`
		Data league.Player `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "profile", payload.Page)
	assert.Equal(t, "Player 2", payload.Data.Name)

	// Still behind the gate.
	req = httptest.NewRequest("GET", "/profile/p2", nil)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	req = httptest.NewRequest("GET", "/profile/ghost", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRankingsCommandHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	req := httptest.NewRequest("POST", "/slack/command/rankings", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	notif := server.Notifier.(*notifier.Mock)
	require.Len(t, notif.SendRankingsCalls, 1)
	assert.Len(t, notif.SendRankingsCalls[0], 4)
}

func TestNotifyResultHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()
	addTestPlayers(t, server)

	token := registerTestUser(t, server, "anna@example.com", "Anna Mork")

	req := httptest.NewRequest("POST", "/api/matches", submissionBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var match league.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))

	// Simulate the Pub/Sub push delivery for the recorded match.
	payload, err := msgpack.Marshal(&pubsub.MatchRecordedEvent{MatchID: match.ID})
	require.NoError(t, err)
	envelope, err := json.Marshal(map[string]any{
		"subscription": "projects/test/subscriptions/notify-result",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(payload)},
	})
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/notify-result", bytes.NewReader(envelope))
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	notif := server.Notifier.(*notifier.Mock)
	require.Len(t, notif.SendResultNotificationCalls, 1)
	assert.Equal(t, match.ID, notif.SendResultNotificationCalls[0].ID)
	assert.Equal(t, "Player 1", notif.SendResultNotificationCalls[0].TeamAPlayer1.Name)
}
