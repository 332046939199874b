package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narensv/vyapari/internal/session"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"exp": exp.Unix(),
	})

	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return s
}

func TestContext_Lifecycle(t *testing.T) {
	ctx := session.NewContext()

	_, ok := ctx.Current()
	assert.False(t, ok, "fresh context is signed out")

	ctx.Begin(&session.Identity{UserID: "user_1", SessionToken: "opaque-token"})

	identity, ok := ctx.Current()
	require.True(t, ok)
	assert.Equal(t, "user_1", identity.UserID)

	ctx.End()

	_, ok = ctx.Current()
	assert.False(t, ok)
}

func TestContext_ExpiredTokenEndsSession(t *testing.T) {
	ctx := session.NewContext()
	ctx.Begin(&session.Identity{
		UserID:       "user_1",
		SessionToken: signedToken(t, time.Now().Add(-time.Hour)),
	})

	_, ok := ctx.Current()
	assert.False(t, ok)
}

func TestTokenExpiry(t *testing.T) {
	t.Run("JWT", func(t *testing.T) {
		exp := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second)

		got, ok := session.TokenExpiry(signedToken(t, exp))
		require.True(t, ok)
		assert.WithinDuration(t, exp, got, time.Second)
	})

	t.Run("OpaqueToken", func(t *testing.T) {
		_, ok := session.TokenExpiry("not-a-jwt")
		assert.False(t, ok)
	})
}
