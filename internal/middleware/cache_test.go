package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/config"
)

func TestResourceGroup(t *testing.T) {
	assert.Equal(t, "article", resourceGroup("/article"))
	assert.Equal(t, "article", resourceGroup("/article/:id"))
	assert.Equal(t, "article", resourceGroup("/article/search"))
	assert.Equal(t, "category", resourceGroup("/category/:id"))
	assert.Equal(t, "root", resourceGroup("/"))
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	mk := func(target, path string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return c
	}

	a := cacheKeyFrom(cfg, mk("/article?page=1", "/article"))
	b := cacheKeyFrom(cfg, mk("/article?page=2", "/article"))
	assert.NotEqual(t, a, b, "query must contribute to the key")
	assert.Equal(t, a, cacheKeyFrom(cfg, mk("/article?page=1", "/article")))

	// Group stays in clear text so invalidation can target it.
	assert.True(t, strings.HasPrefix(a, "cache:article:"))
	assert.True(t, strings.HasPrefix(
		cacheKeyFrom(cfg, mk("/category/3", "/category/:id")), "cache:category:"))

	cfg.KeyStrategy = "route"
	a = cacheKeyFrom(cfg, mk("/article?page=1", "/article"))
	b = cacheKeyFrom(cfg, mk("/article?page=2", "/article"))
	assert.Equal(t, a, b, "route strategy ignores the query string")
}

func TestCachedResponseRoundTrip(t *testing.T) {
	in := cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(`{"message":"ok"}`),
	}
	bs, err := json.Marshal(in)
	require.NoError(t, err)

	var out cachedResponse
	require.NoError(t, json.Unmarshal(bs, &out))
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, "application/json", out.Header.Get("Content-Type"))
	assert.Equal(t, in.Body, out.Body)
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/article", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheInvalidatorNilClientPassesThrough(t *testing.T) {
	mw := NewCacheInvalidator(config.CacheConfig{Enabled: true}, nil, "article")
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/article/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.JSON(http.StatusOK, echo.Map{"message": "Article deleted"})
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseRecorderOverflow(t *testing.T) {
	rr := &responseRecorder{
		ResponseWriter: httptest.NewRecorder(),
		status:         http.StatusOK,
		limit:          8,
	}
	_, err := rr.Write([]byte("0123"))
	require.NoError(t, err)
	assert.False(t, rr.overflow)

	_, err = rr.Write([]byte("456789"))
	require.NoError(t, err)
	assert.True(t, rr.overflow, "past the limit the response is uncacheable")
	assert.Zero(t, rr.buf.Len())
}
