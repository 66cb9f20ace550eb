package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	// A cost below bcrypt's minimum is replaced with the default instead of
	// failing, so misconfigured deployments still produce usable hashes.
	hash, err := HashPassword("s3cret", 0)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}
