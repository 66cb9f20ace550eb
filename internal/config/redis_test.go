package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptionsFromURL(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:secret@cache.internal:6380/2")
	opts, err := redisOptions()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestRedisOptionsFromParts(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_ADDR", "10.0.0.2:6379")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "1")
	opts, err := redisOptions()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 1, opts.DB)
}

func TestRedisOptionsBadURL(t *testing.T) {
	t.Setenv("REDIS_URL", "http://not-redis")
	_, err := redisOptions()
	assert.Error(t, err)
}
