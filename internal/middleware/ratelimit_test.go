package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/config"
)

func rateCtx(path string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, rateCtx("/article")))

	cfg.KeyStrategy = "user"
	c := rateCtx("/article")
	c.Set("user_id", uint64(4))
	assert.Equal(t, "rl:user:4", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.1:route:/article", buildRateKey(cfg, rateCtx("/article")))

	// Unknown strategies fall back to the full ip_user_route key.
	cfg.KeyStrategy = "whatever"
	assert.Equal(t, "rl:ip:10.0.0.1:user:guest:route:/article", buildRateKey(cfg, rateCtx("/article")))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	c := rateCtx("/article")
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64(5.0))
	assert.Equal(t, int64(5), asInt64("5"))
	assert.Equal(t, int64(0), asInt64("nope"))
	assert.Equal(t, int64(0), asInt64(nil))
}
