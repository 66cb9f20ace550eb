package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "admin", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	id, err := VerifyAccessToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id.UserID)
	assert.Equal(t, "admin", id.Role)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 7, "user", 15)
	require.NoError(t, err)

	_, err = VerifyAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	// A negative TTL produces a token that expired in the past.
	tok, err := NewAccessToken("test-secret", 7, "user", -1)
	require.NoError(t, err)

	_, err = VerifyAccessToken("test-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	_, err := VerifyAccessToken("test-secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
