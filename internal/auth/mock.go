package auth

import "sync"

// MockAuthService is a mock implementation of AuthService for testing.
type MockAuthService struct {
	mu sync.Mutex

	// Spies for method calls
	RegisterFunc func(email, password, name string) (*Session, error)
	LoginFunc    func(email, password string) (*Session, error)
	ValidateFunc func(token string) (*Session, error)
	SignOutFunc  func(token string)

	// Call records
	SignOutCalls []string
}

var _ AuthService = (*MockAuthService)(nil)

// NewMock creates a new mock AuthService. Validate rejects every token
// unless ValidateFunc is set.
func NewMock() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(email, password, name string) (*Session, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(email, password, name)
	}
	return &Session{Token: "sess_mock", Email: email}, nil
}

func (m *MockAuthService) Login(email, password string) (*Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, password)
	}
	return &Session{Token: "sess_mock", Email: email}, nil
}

func (m *MockAuthService) Validate(token string) (*Session, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return nil, ErrInvalidSession
}

func (m *MockAuthService) SignOut(token string) {
	m.mu.Lock()
	m.SignOutCalls = append(m.SignOutCalls, token)
	m.mu.Unlock()
	if m.SignOutFunc != nil {
		m.SignOutFunc(token)
	}
}
