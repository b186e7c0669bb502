package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked; the backend does that on every call. Opaque
// tokens and tokens without exp never expire client-side.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
