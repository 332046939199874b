package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the expiry claim from a session token without
// verifying the signature; verification belongs to the backend. Opaque
// (non-JWT) tokens carry no readable expiry and report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
