package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/auth"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/recorder"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
	Email    string `json:"email"`
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Email == "" || req.Password == "" || req.Name == "" {
			respondError(w, http.StatusBadRequest, "email, password and name are required")
			return
		}

		session, err := s.Auth.Register(req.Email, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				respondError(w, http.StatusConflict, "email already registered")
				return
			}
			log.Error("Failed to register user", "error", err)
			respondError(w, http.StatusInternalServerError, "registration failed")
			return
		}

		s.setSessionCookie(w, session)
		respondJSON(w, http.StatusCreated, sessionResponse{
			Token:    session.Token,
			PlayerID: session.PlayerID,
			Email:    session.Email,
		})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		session, err := s.Auth.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			log.Error("Failed to log in user", "error", err)
			respondError(w, http.StatusInternalServerError, "login failed")
			return
		}

		s.setSessionCookie(w, session)
		respondJSON(w, http.StatusOK, sessionResponse{
			Token:    session.Token,
			PlayerID: session.PlayerID,
			Email:    session.Email,
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			s.Auth.SignOut(cookie.Value)
		}

		// Expire the cookie either way.
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub recorder.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		match, err := s.Recorder.Record(&sub)
		if err != nil {
			var vErr *recorder.ValidationError
			if errors.As(err, &vErr) {
				respondJSON(w, http.StatusBadRequest, vErr)
				return
			}
			log.Error("Failed to record match", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to record match")
			return
		}

		respondJSON(w, http.StatusCreated, match)
	}
}

// parseLimit reads the 'limit' query parameter, defaulting to 10 and
// capping at 100.
func parseLimit(r *http.Request) int {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		} else {
			log.Warn("Invalid 'limit' parameter provided. Defaulting to 10.", "limit_param", limitStr)
		}
	}
	return limit
}

func (s *Server) RecentMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetRecentMatches(parseLimit(r))
		if err != nil {
			log.Error("Failed to get recent matches", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get matches")
			return
		}

		views, err := league.ExpandMatches(matches, s.Store)
		if err != nil {
			log.Error("Failed to expand matches", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get matches")
			return
		}

		respondJSON(w, http.StatusOK, views)
	}
}

// PlayerMatchesHandler serves one club member's recent matches.
func (s *Server) PlayerMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		if !s.Store.IsKnownPlayer(playerID) {
			respondError(w, http.StatusNotFound, "player not found")
			return
		}

		matches, err := s.Store.GetPlayerMatches(playerID, parseLimit(r))
		if err != nil {
			log.Error("Failed to get player matches", "error", err, "playerID", playerID)
			respondError(w, http.StatusInternalServerError, "failed to get matches")
			return
		}

		views, err := league.ExpandMatches(matches, s.Store)
		if err != nil {
			log.Error("Failed to expand matches", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get matches")
			return
		}

		respondJSON(w, http.StatusOK, views)
	}
}

// playerStatsResponse bundles a player's profile with their recent matches
// and partner breakdown for the profile page.
type playerStatsResponse struct {
	Player        *league.Player        `json:"player"`
	RecentMatches []league.MatchView    `json:"recent_matches"`
	Partners      []league.PartnerStats `json:"partners"`
}

// PlayerStatsHandler serves the session player's own stats.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r)
		if session == nil {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		s.writePlayerStats(w, session.PlayerID)
	}
}

// PlayerStatsByIDHandler serves any club member's stats.
func (s *Server) PlayerStatsByIDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writePlayerStats(w, r.PathValue("id"))
	}
}

func (s *Server) writePlayerStats(w http.ResponseWriter, playerID string) {
	player, err := s.Store.GetPlayer(playerID)
	if err != nil {
		if errors.Is(err, league.ErrNotFound) {
			respondError(w, http.StatusNotFound, "player not found")
			return
		}
		log.Error("Failed to get player", "error", err, "playerID", playerID)
		respondError(w, http.StatusInternalServerError, "failed to get player")
		return
	}

	matches, err := s.Store.GetPlayerMatches(playerID, 10)
	if err != nil {
		log.Error("Failed to get player matches", "error", err, "playerID", playerID)
		respondError(w, http.StatusInternalServerError, "failed to get matches")
		return
	}
	views, err := league.ExpandMatches(matches, s.Store)
	if err != nil {
		log.Error("Failed to expand matches", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get matches")
		return
	}

	partners, err := s.Store.GetPartnerStats(playerID)
	if err != nil {
		log.Error("Failed to get partner stats", "error", err, "playerID", playerID)
		respondError(w, http.StatusInternalServerError, "failed to get partner stats")
		return
	}

	respondJSON(w, http.StatusOK, playerStatsResponse{
		Player:        player,
		RecentMatches: views,
		Partners:      partners,
	})
}

func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetRankings()
		if err != nil {
			log.Error("Failed to get rankings", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get rankings")
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

// RankingsCommandHandler handles the /rankings Slack slash command by
// posting the current standings to the club channel.
func (s *Server) RankingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetRankings()
		if err != nil {
			log.Error("Failed to get rankings", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get rankings")
			return
		}

		if err := s.Notifier.SendRankings(players, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send rankings notification", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to send rankings")
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Rankings on their way!")
	}
}

func (s *Server) PartnerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		if playerID == "" {
			respondError(w, http.StatusBadRequest, "player id is required")
			return
		}
		if !s.Store.IsKnownPlayer(playerID) {
			respondError(w, http.StatusNotFound, "player not found")
			return
		}

		stats, err := s.Store.GetPartnerStats(playerID)
		if err != nil {
			log.Error("Failed to get partner stats", "error", err, "playerID", playerID)
			respondError(w, http.StatusInternalServerError, "failed to get partner stats")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
