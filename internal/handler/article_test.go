package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The article endpoints must accept both JSON and form bodies; reading
// fields with FormValue alone would leave JSON payloads empty and bounce
// them off the required-field check.
func TestArticleRequestBindsJSON(t *testing.T) {
	e := echo.New()
	body := `{"title":"T","content":"C","category":"Tech"}`
	req := httptest.NewRequest(http.MethodPost, "/article", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var r articleReq
	require.NoError(t, c.Bind(&r))
	assert.Equal(t, "T", r.Title)
	assert.Equal(t, "C", r.Content)
	assert.Equal(t, "Tech", r.Category)
}

func TestArticleRequestBindsForm(t *testing.T) {
	e := echo.New()
	form := url.Values{"title": {"T"}, "content": {"C"}}
	req := httptest.NewRequest(http.MethodPut, "/article/1", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	var r articleReq
	require.NoError(t, c.Bind(&r))
	assert.Equal(t, "T", r.Title)
	assert.Equal(t, "C", r.Content)
	assert.Empty(t, r.Category)
}
