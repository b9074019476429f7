package http

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/league"
)

// The page handlers return the data each page renders from. Server-side
// templating is left to the frontend; what matters here is that every
// page route exists and sits behind the access gate.

type pagePayload struct {
	Page string `json:"page"`
	Data any    `json:"data,omitempty"`
}

func (s *Server) HomePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, pagePayload{Page: "home"})
	}
}

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, pagePayload{Page: "login"})
	}
}

func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, pagePayload{Page: "register"})
	}
}

func (s *Server) DashboardPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetRecentMatches(10)
		if err != nil {
			log.Error("Failed to get recent matches for dashboard", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load dashboard")
			return
		}
		views, err := league.ExpandMatches(matches, s.Store)
		if err != nil {
			log.Error("Failed to expand matches for dashboard", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load dashboard")
			return
		}
		respondJSON(w, http.StatusOK, pagePayload{Page: "dashboard", Data: views})
	}
}

func (s *Server) MatchesPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetRankings()
		if err != nil {
			log.Error("Failed to get players for match form", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load match form")
			return
		}
		// The record form needs the player list for its selectors.
		respondJSON(w, http.StatusOK, pagePayload{Page: "matches", Data: players})
	}
}

func (s *Server) RankingsPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetRankings()
		if err != nil {
			log.Error("Failed to get rankings for page", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load rankings")
			return
		}
		respondJSON(w, http.StatusOK, pagePayload{Page: "rankings", Data: players})
	}
}

// ProfilePageHandler serves the session player's own profile page.
func (s *Server) ProfilePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r)
		if session == nil {
			// The gate redirects before this can happen.
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.writeProfilePage(w, session.PlayerID)
	}
}

// PlayerProfilePageHandler serves any club member's profile page.
func (s *Server) PlayerProfilePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeProfilePage(w, r.PathValue("id"))
	}
}

func (s *Server) writeProfilePage(w http.ResponseWriter, playerID string) {
	player, err := s.Store.GetPlayer(playerID)
	if err != nil {
		if errors.Is(err, league.ErrNotFound) {
			respondError(w, http.StatusNotFound, "player not found")
			return
		}
		log.Error("Failed to get player for profile", "error", err, "playerID", playerID)
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, pagePayload{Page: "profile", Data: player})
}
