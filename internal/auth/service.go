package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var _ AuthService = (*Service)(nil)

// New creates a new auth Service. sessionDuration of zero defaults to 24h.
func New(store league.LeagueStore, metrics metrics.Metrics, sessionDuration time.Duration) *Service {
	if sessionDuration == 0 {
		sessionDuration = 24 * time.Hour
	}
	return &Service{
		store:           store,
		metrics:         metrics,
		sessions:        make(map[string]*Session),
		sessionDuration: sessionDuration,
		now:             time.Now,
	}
}

// Register creates a player profile and a user account for it, then opens
// a session. The new player starts with the default rating and zeroed
// counters.
func (s *Service) Register(email, password, name string) (*Session, error) {
	_, err := s.store.GetUserByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, league.ErrNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := league.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		PlayerID:     uuid.NewString(),
		CreatedAt:    s.now().Unix(),
	}

	// Player and user rows are created in one store transaction, so two
	// signups racing past the email check cannot leave an orphan player.
	if err := s.store.CreateUserWithPlayer(user, name); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	log.Info("Registered user", "email", email, "playerID", user.PlayerID)
	return s.createSession(&user), nil
}

// Login authenticates a user and opens a session.
func (s *Service) Login(email, password string) (*Session, error) {
	s.metrics.IncLoginAttempts()

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, league.ErrNotFound) {
			s.metrics.IncLoginFailures()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.IncLoginFailures()
		return nil, ErrInvalidCredentials
	}

	return s.createSession(user), nil
}

// Validate checks a session token and returns the session. Expired
// sessions are dropped on first sight.
func (s *Service) Validate(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// SignOut removes a session. Unknown tokens are ignored.
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions. Called periodically from
// the server loop.
func (s *Service) CleanExpiredSessions() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Service) createSession(user *league.User) *Session {
	now := s.now()
	session := &Session{
		Token:     generateToken(),
		UserID:    user.ID,
		PlayerID:  user.PlayerID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
