package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniorder/internal/storage"
)

func signedDemoToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionRoundTrip(t *testing.T) {
	store := storage.OpenEphemeral()
	s := Load(store)

	assert.Empty(t, s.Token())
	assert.Nil(t, s.Profile())

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s.SetDemoSession(signedDemoToken(t, "demo_admin", exp), Profile{
		Name:    "Demo Admin",
		Email:   "demo@omniorder.localhost",
		Subject: "demo_admin",
	})

	assert.NotEmpty(t, s.Token())
	require.NotNil(t, s.Profile())
	assert.Equal(t, "Demo Admin", s.Profile().Name)

	claims, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, "demo_admin", claims.Subject)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())

	// Another load over the same store sees the persisted state.
	again := Load(store)
	assert.Equal(t, s.Token(), again.Token())
	require.NotNil(t, again.Profile())
	assert.Equal(t, "demo@omniorder.localhost", again.Profile().Email)
}

func TestSessionClear(t *testing.T) {
	store := storage.OpenEphemeral()
	s := Load(store)
	s.SetDemoSession(signedDemoToken(t, "demo_admin", time.Now().Add(time.Hour)), Profile{Name: "Demo"})

	s.Clear()
	assert.Empty(t, s.Token())
	assert.Nil(t, s.Profile())

	_, err := s.Claims()
	assert.Error(t, err)
}

func TestTourSeenFlag(t *testing.T) {
	s := Load(storage.OpenEphemeral())
	assert.False(t, s.TourSeen())
	s.MarkTourSeen()
	assert.True(t, s.TourSeen())
}
