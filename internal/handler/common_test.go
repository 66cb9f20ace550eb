package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want uint64
	}{
		{"uint64", uint64(7), 7},
		{"int", int(7), 7},
		{"int64", int64(7), 7},
		{"float64", float64(7), 7},
		{"string", "7", 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t)
			c.Set("user_id", tc.val)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		c := newTestContext(t)
		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("garbage string", func(t *testing.T) {
		c := newTestContext(t)
		c.Set("user_id", "abc")
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestCanMutate(t *testing.T) {
	admin := model.User{ID: 1, Role: model.RoleAdmin}
	owner := model.User{ID: 2, Role: model.RoleUser}
	other := model.User{ID: 3, Role: model.RoleUser}

	assert.True(t, canMutate(admin, 99), "admins may act on any record")
	assert.True(t, canMutate(owner, 2), "owners may act on their own records")
	assert.False(t, canMutate(other, 2), "non-owners are rejected")
}

func TestMustOwn(t *testing.T) {
	admin := model.User{ID: 1, Role: model.RoleAdmin}
	other := model.User{ID: 3, Role: model.RoleUser}

	assert.NoError(t, mustOwn(admin, 99))
	assert.NoError(t, mustOwn(other, 3))
	assert.ErrorIs(t, mustOwn(other, 2), repository.ErrForbidden)
}
