package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailTaken         = errors.New("email already registered")
)

// Session represents an authenticated session.
type Session struct {
	Token     string
	UserID    string
	PlayerID  string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles registration, login and session management. Sessions are
// held in memory and do not survive a restart.
type Service struct {
	store   league.LeagueStore
	metrics metrics.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	now             func() time.Time
}
