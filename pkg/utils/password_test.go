package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("pass123")
	require.NoError(t, err)
	assert.Contains(t, hashed, ".")

	other, err := HashPassword("pass123")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, other, "salt must differ between hashes")

	ok, err := VerifyPassword("pass123", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordBlank(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "nodot", "a.b.c", "!!!.AAAA", "AAAA.!!!"} {
		_, err := VerifyPassword("pass123", encoded)
		assert.ErrorIs(t, err, ErrInvalidHash, "encoded %q", encoded)
	}
}
