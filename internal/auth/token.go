package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo describes a bearer token for logging. It is read without
// verifying the signature and must never drive authorization decisions.
type TokenInfo struct {
	Length    int
	Opaque    bool
	Subject   string
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry before now
func (i TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// Inspect reads the subject and expiry from a JWT bearer token. Tokens that
// are not JWTs are reported as opaque.
func Inspect(token string) TokenInfo {
	info := TokenInfo{Length: len(token), Opaque: true}
	if token == "" {
		return info
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}

	info.Opaque = false
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info
}
