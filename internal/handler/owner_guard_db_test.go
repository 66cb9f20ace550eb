package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

func testImageStore(t *testing.T) *storage.ImageStore {
	t.Helper()
	return storage.NewImageStore(t.TempDir())
}

// handlerTestDB mirrors the repository package's database gate: skip
// without DB_HOST, wipe the content tables otherwise.
func handlerTestDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set; skipping database test")
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = "root"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "inkwell_test"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
		user, os.Getenv("DB_PASS"), host, port, name)

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))
	for _, tbl := range []string{"likes", "reviews", "articles", "categories", "users"} {
		_, err := db.ExecContext(ctx, "DELETE FROM "+tbl)
		require.NoError(t, err)
	}
	return db
}

// A user who neither owns a review nor holds the admin role must get the
// canonical 403; an admin acting on the same review must succeed.
func TestReviewMutationOwnershipGuard(t *testing.T) {
	db := handlerTestDB(t)
	users := repository.NewUserRepo(db)
	articles := repository.NewArticleRepo(db)
	reviews := repository.NewReviewRepo(db)
	h := NewReviewHandler(reviews, articles, users)
	ctx := context.Background()

	// First registered user is the admin; the two after it are plain users.
	adminID, role, err := users.Create(ctx, "root", "root@example.com", "pw", 4)
	require.NoError(t, err)
	require.Equal(t, "admin", role)
	ownerID, _, err := users.Create(ctx, "owner", "owner@example.com", "pw", 4)
	require.NoError(t, err)
	strangerID, _, err := users.Create(ctx, "stranger", "stranger@example.com", "pw", 4)
	require.NoError(t, err)

	a, err := articles.Create(ctx, ownerID, nil, "Title", "Content", "")
	require.NoError(t, err)
	rv, err := reviews.Create(ctx, ownerID, a.ID, "mine")
	require.NoError(t, err)

	del := func(actorID uint64) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodDelete, "/reviews/"+strconv.FormatUint(rv.ID, 10), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/reviews/:id")
		c.SetParamNames("id")
		c.SetParamValues(strconv.FormatUint(rv.ID, 10))
		c.Set("user_id", actorID)
		require.NoError(t, h.Delete(c))
		return rec
	}

	rec := del(strangerID)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Permission denied"}`, rec.Body.String())

	rec = del(adminID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Review deleted"}`, rec.Body.String())
}

// The JSON body path of article creation: the required-field check must
// see fields sent as application/json, not only form values.
func TestArticleCreateAcceptsJSONBody(t *testing.T) {
	db := handlerTestDB(t)
	users := repository.NewUserRepo(db)
	articles := repository.NewArticleRepo(db)
	categories := repository.NewCategoryRepo(db)
	h := NewArticleHandler(articles, categories, users, testImageStore(t))
	ctx := context.Background()

	uid, _, err := users.Create(ctx, "writer", "writer@example.com", "pw", 4)
	require.NoError(t, err)

	e := echo.New()
	body := `{"title":"T","content":"C"}`
	req := httptest.NewRequest(http.MethodPost, "/article", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"T"`)
}
