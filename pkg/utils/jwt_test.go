package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignToken(42, "owner@test.com")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["uid"])
	assert.Equal(t, "owner@test.com", claims["user"])
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first")
	token, err := SignToken(1, "a@test.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{"uid": 1, "exp": jwt.NewNumericDate(time.Now().Add(-time.Minute))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSignTokenWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := SignToken(1, "a@test.com")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestTokenTTL(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "")
	assert.Equal(t, 24*time.Hour, TokenTTL())

	t.Setenv("JWT_EXPIRES_IN", "30")
	assert.Equal(t, 30*time.Minute, TokenTTL())

	t.Setenv("JWT_EXPIRES_IN", "-5")
	assert.Equal(t, 24*time.Hour, TokenTTL())
}
