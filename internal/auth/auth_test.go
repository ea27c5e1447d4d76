package auth_test

import (
	"strings"
	"testing"
	"time"

	"rental-backend/internal/auth"
	"rental-backend/internal/config"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(clock timeutil.Clock) *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "rental-backend"
	return auth.NewJWTManager(cfg).WithClock(clock)
}

func TestJWTManager(t *testing.T) {
	clock := timeutil.NewFixedClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	m := newManager(clock)
	user := &models.User{ID: 7, Username: "admin", Role: "admin"}

	t.Run("Round trip", func(t *testing.T) {
		token, err := m.GenerateToken(user)
		require.NoError(t, err)

		claims, err := m.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 7, claims.UserID)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "rental-backend", claims.Issuer)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := m.GenerateToken(user)
		require.NoError(t, err)

		later := timeutil.NewFixedClock(clock.Now().Add(2 * time.Hour))
		_, err = newManager(later).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := m.GenerateToken(user)
		require.NoError(t, err)

		cfg := &config.Config{}
		cfg.JWT.Secret = "other"
		_, err = auth.NewJWTManager(cfg).WithClock(clock).ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(hash, "admin123"))
	assert.False(t, auth.VerifyPassword(hash, "wrong"))

	_, err = auth.HashPassword("short")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
	assert.ErrorIs(t, auth.CheckPassword(strings.Repeat("x", 73)), auth.ErrWeakPassword)
	assert.NoError(t, auth.CheckPassword(strings.Repeat("x", 72)))
}
