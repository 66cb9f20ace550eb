package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/utils"
)

const testSecret = "unit-test-secret"

// runAuth pushes a request with the given Authorization header through
// JWTAuth and reports the recorder plus whether the inner handler ran.
func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, called
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _, called := runAuth(t, "")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized - Token missing"}`, rec.Body.String())
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _, called := runAuth(t, "bogus")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized - Invalid token"}`, rec.Body.String())
}

func TestJWTAuthRawToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 9, "user", 15)
	require.NoError(t, err)

	rec, c, called := runAuth(t, tok.Token)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), c.Get("user_id"))
	assert.Equal(t, "user", c.Get("role"))
}

func TestJWTAuthBearerToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 5, "admin", 15)
	require.NoError(t, err)

	rec, c, called := runAuth(t, "Bearer "+tok.Token)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), c.Get("user_id"))
	assert.Equal(t, "admin", c.Get("role"))
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	run := func(role any) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		called := false
		h := RequireAdmin()(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rec, called
	}

	rec, called := run("admin")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, called = run("user")
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden - Admin access required"}`, rec.Body.String())

	rec, called = run(nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
