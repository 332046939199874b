package session_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/narensv/vyapari/internal/session"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}

func TestBootstrap_Run_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := session.NewMockExchanger(ctrl)
	want := &session.Identity{UserID: "user_1", Email: "o@example.in", Name: "Omkar"}

	exchanger.EXPECT().
		Exchange(gomock.Any(), "code-1").
		Return(want, nil)

	b := session.NewBootstrap(exchanger, session.NewMemoryRegistry(time.Minute))

	got, err := b.Run(context.Background(), mustParse(t, "https://app.example.in/auth/callback#session_id=code-1"), true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, session.StateSucceeded, b.State())
}

func TestBootstrap_Run_QueryOnlyCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := session.NewMockExchanger(ctrl)
	exchanger.EXPECT().
		Exchange(gomock.Any(), "q-code").
		Return(&session.Identity{UserID: "user_2"}, nil)

	b := session.NewBootstrap(exchanger, session.NewMemoryRegistry(time.Minute))

	got, err := b.Run(context.Background(), mustParse(t, "https://app.example.in/auth/callback?session_id=q-code"), true)
	require.NoError(t, err)
	assert.Equal(t, "user_2", got.UserID)
}

func TestBootstrap_Run_DoubleInvocationExchangesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := session.NewMockExchanger(ctrl)
	exchanger.EXPECT().
		Exchange(gomock.Any(), "code-once").
		Return(&session.Identity{UserID: "user_3"}, nil).
		Times(1)

	b := session.NewBootstrap(exchanger, session.NewMemoryRegistry(time.Minute))
	landing := mustParse(t, "https://app.example.in/auth/callback#session_id=code-once")

	first, err := b.Run(context.Background(), landing, true)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := b.Run(context.Background(), landing, true)
	assert.ErrorIs(t, err, session.ErrCodeConsumed)
	assert.Nil(t, second)

	// The no-op re-invocation must not disturb the completed handshake.
	assert.Equal(t, session.StateSucceeded, b.State())
}

func TestBootstrap_Run_MissingCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := session.NewMockExchanger(ctrl)
	b := session.NewBootstrap(exchanger, session.NewMemoryRegistry(time.Minute))

	t.Run("RedirectLandingFails", func(t *testing.T) {
		_, err := b.Run(context.Background(), mustParse(t, "https://app.example.in/auth/callback"), true)
		assert.ErrorIs(t, err, session.ErrCodeMissing)
		assert.Equal(t, session.StateFailed, b.State())
	})

	t.Run("OrdinaryNavigationIsNotAnError", func(t *testing.T) {
		got, err := b.Run(context.Background(), mustParse(t, "https://app.example.in/dashboard"), false)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestBootstrap_Run_ExchangeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := session.NewMockExchanger(ctrl)
	exchanger.EXPECT().
		Exchange(gomock.Any(), "bad-code").
		Return(nil, errors.New("connection refused")).
		Times(1)

	b := session.NewBootstrap(exchanger, session.NewMemoryRegistry(time.Minute))
	landing := mustParse(t, "https://app.example.in/auth/callback#session_id=bad-code")

	got, err := b.Run(context.Background(), landing, true)
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, session.StateFailed, b.State())

	// The code is spent; a later invocation must not retry the network call.
	_, err = b.Run(context.Background(), landing, true)
	assert.ErrorIs(t, err, session.ErrCodeConsumed)
	assert.Equal(t, session.StateFailed, b.State())
}

func TestBootstrap_Run_RegistryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchanger := session.NewMockExchanger(ctrl)
	registry := session.NewMockCodeRegistry(ctrl)
	registry.EXPECT().
		Claim(gomock.Any(), "code-x").
		Return(false, errors.New("db down"))

	b := session.NewBootstrap(exchanger, registry)

	_, err := b.Run(context.Background(), mustParse(t, "https://app.example.in/auth/callback#session_id=code-x"), true)
	assert.Error(t, err)
	assert.Equal(t, session.StateFailed, b.State())
}

func TestMemoryRegistry_Claim(t *testing.T) {
	r := session.NewMemoryRegistry(time.Minute)

	first, err := r.Claim(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := r.Claim(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, second)

	other, err := r.Claim(context.Background(), "c2")
	require.NoError(t, err)
	assert.True(t, other)
}
