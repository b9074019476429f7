package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	matchesRecorded    int
	validationFailures int
	recordDurations    []float64
	loginAttempts      int
	loginFailures      int
	notifSent          int
	notifFailed        int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		recordDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncValidationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures++
}

func (m *Mock) ObserveRecordDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDurations = append(m.recordDurations, duration)
}

func (m *Mock) IncLoginAttempts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginAttempts++
}

func (m *Mock) IncLoginFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginFailures++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// ValidationFailures returns the number of times IncValidationFailures was called.
func (m *Mock) ValidationFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures
}

// LoginAttempts returns the number of times IncLoginAttempts was called.
func (m *Mock) LoginAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginAttempts
}

// LoginFailures returns the number of times IncLoginFailures was called.
func (m *Mock) LoginFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginFailures
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
