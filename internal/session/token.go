package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry reads the "exp" claim of a JWT bearer token without verifying
// its signature. It is informational only and never used for gating; the
// remote API remains the authority on whether a token is still valid.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
