package auth

//go:generate mockgen -source=interfaces.go -destination=../mocks/auth_mocks.go -package=mocks

// TokenSetter accepts a bearer token captured from a login callback
type TokenSetter interface {
	SetToken(token string) error
}

// TokenReader exposes the currently held bearer token
type TokenReader interface {
	AccessToken() string
	HasToken() bool
}

// TokenStore persists the bearer token between runs
type TokenStore interface {
	// Load returns the stored token, or a NotFoundError when nothing is stored
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Navigator moves the user agent to another path
type Navigator interface {
	Navigate(path string, opts NavigateOptions)
}
