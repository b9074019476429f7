package auth

// AuthService defines the authentication operations used by the HTTP layer.
type AuthService interface {
	Register(email, password, name string) (*Session, error)
	Login(email, password string) (*Session, error)
	Validate(token string) (*Session, error)
	SignOut(token string)
}
