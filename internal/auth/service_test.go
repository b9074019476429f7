package auth

import (
	"testing"
	"time"

	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*Service, *league.MockStore, *metrics.Mock) {
	store := league.NewMock()
	m := metrics.NewMock()
	return New(store, m, time.Hour), store, m
}

// storedUser wires the mock so Login can find the given user by email.
func storedUser(store *league.MockStore, email, password string) *league.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	user := &league.User{
		ID:           "u1",
		Email:        email,
		PasswordHash: string(hash),
		PlayerID:     "p1",
	}
	store.GetUserByEmailFunc = func(e string) (*league.User, error) {
		if e == email {
			return user, nil
		}
		return nil, league.ErrNotFound
	}
	return user
}

func TestRegister(t *testing.T) {
	svc, store, _ := newTestService()

	session, err := svc.Register("anna@example.com", "secret", "Anna Mork")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)

	require.Len(t, store.CreateUserWithPlayerCalls, 1)
	created := store.CreateUserWithPlayerCalls[0]
	assert.Equal(t, "Anna Mork", created.Name)
	assert.Equal(t, "anna@example.com", created.User.Email)
	assert.NotEmpty(t, created.User.PlayerID)

	// The password is stored hashed, never in the clear.
	assert.NotEqual(t, "secret", created.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.User.PasswordHash), []byte("secret")))

	// The session is immediately valid.
	got, err := svc.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.PlayerID, got.PlayerID)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, store, _ := newTestService()
	storedUser(store, "anna@example.com", "secret")

	_, err := svc.Register("anna@example.com", "other", "Anna Again")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.CreateUserWithPlayerCalls, 0)
}

func TestRegister_StoreFailure(t *testing.T) {
	svc, store, _ := newTestService()
	store.CreateUserWithPlayerFunc = func(user league.User, playerName string) error {
		return assert.AnError
	}

	_, err := svc.Register("anna@example.com", "secret", "Anna Mork")
	require.Error(t, err)

	// No session is opened for a signup the store rejected.
	assert.Empty(t, svc.sessions)
}

func TestLogin(t *testing.T) {
	svc, store, m := newTestService()
	storedUser(store, "anna@example.com", "secret")

	session, err := svc.Login("anna@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "p1", session.PlayerID)
	assert.Equal(t, 1, m.LoginAttempts())
	assert.Equal(t, 0, m.LoginFailures())

	got, err := svc.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestLogin_Rejections(t *testing.T) {
	svc, store, m := newTestService()
	storedUser(store, "anna@example.com", "secret")

	_, err := svc.Login("anna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, 2, m.LoginAttempts())
	assert.Equal(t, 2, m.LoginFailures())
}

func TestValidate_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Validate("sess_bogus")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidate_Expiry(t *testing.T) {
	svc, store, _ := newTestService()
	storedUser(store, "anna@example.com", "secret")

	current := time.Now()
	svc.now = func() time.Time { return current }

	session, err := svc.Login("anna@example.com", "secret")
	require.NoError(t, err)

	_, err = svc.Validate(session.Token)
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, err = svc.Validate(session.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSignOut(t *testing.T) {
	svc, store, _ := newTestService()
	storedUser(store, "anna@example.com", "secret")

	session, err := svc.Login("anna@example.com", "secret")
	require.NoError(t, err)

	svc.SignOut(session.Token)
	_, err = svc.Validate(session.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Signing out twice is harmless.
	svc.SignOut(session.Token)
}

func TestCleanExpiredSessions(t *testing.T) {
	svc, store, _ := newTestService()
	storedUser(store, "anna@example.com", "secret")

	current := time.Now()
	svc.now = func() time.Time { return current }

	stale, err := svc.Login("anna@example.com", "secret")
	require.NoError(t, err)

	current = current.Add(30 * time.Minute)
	fresh, err := svc.Login("anna@example.com", "secret")
	require.NoError(t, err)

	current = current.Add(45 * time.Minute)
	assert.Equal(t, 1, svc.CleanExpiredSessions())

	_, err = svc.Validate(stale.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = svc.Validate(fresh.Token)
	assert.NoError(t, err)
}
