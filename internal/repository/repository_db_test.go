package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB connects to the MySQL instance named by the DB_* environment
// variables and wipes the content tables so every test starts empty.
// Without DB_HOST the test is skipped, so the suite stays runnable on
// machines with no database. Point DB_NAME at a disposable test schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set; skipping database test")
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
		envOr("DB_USER", "root"), os.Getenv("DB_PASS"),
		host, envOr("DB_PORT", "3306"), envOr("DB_NAME", "inkwell_test"))

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

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func TestCreateFirstUserBecomesAdmin(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	_, role, err := users.Create(ctx, "founder", "founder@example.com", "pw", 4)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, role, err = users.Create(ctx, "second", "second@example.com", "pw", 4)
	require.NoError(t, err)
	assert.Equal(t, "user", role)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	_, _, err := users.Create(ctx, "dupe", "dupe@example.com", "pw", 4)
	require.NoError(t, err)

	_, _, err = users.Create(ctx, "dupe", "other@example.com", "pw", 4)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestDeleteCascadeRemovesDependents(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	articles := NewArticleRepo(db)
	reviews := NewReviewRepo(db)
	likes := NewLikeRepo(db)
	ctx := context.Background()

	authorID, _, err := users.Create(ctx, "author", "author@example.com", "pw", 4)
	require.NoError(t, err)
	readerID, _, err := users.Create(ctx, "reader", "reader@example.com", "pw", 4)
	require.NoError(t, err)

	a, err := articles.Create(ctx, authorID, nil, "Title", "Content", "")
	require.NoError(t, err)

	_, err = reviews.Create(ctx, readerID, a.ID, "nice read")
	require.NoError(t, err)
	_, err = likes.Create(ctx, readerID, a.ID, "upvote")
	require.NoError(t, err)

	res, err := articles.DeleteCascade(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ReviewsDeleted)
	assert.Equal(t, int64(1), res.LikesDeleted)

	_, err = articles.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var nReviews, nLikes int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE article_id=?", a.ID).Scan(&nReviews))
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE article_id=?", a.ID).Scan(&nLikes))
	assert.Zero(t, nReviews)
	assert.Zero(t, nLikes)
}

func TestDeleteCascadeMissingArticle(t *testing.T) {
	db := testDB(t)
	articles := NewArticleRepo(db)

	_, err := articles.DeleteCascade(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateReviewAndLike(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	articles := NewArticleRepo(db)
	reviews := NewReviewRepo(db)
	likes := NewLikeRepo(db)
	ctx := context.Background()

	uid, _, err := users.Create(ctx, "voter", "voter@example.com", "pw", 4)
	require.NoError(t, err)
	a, err := articles.Create(ctx, uid, nil, "Title", "Content", "")
	require.NoError(t, err)

	_, err = reviews.Create(ctx, uid, a.ID, "first take")
	require.NoError(t, err)
	_, err = reviews.Create(ctx, uid, a.ID, "second take")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = likes.Create(ctx, uid, a.ID, "upvote")
	require.NoError(t, err)
	_, err = likes.Create(ctx, uid, a.ID, "downvote")
	assert.ErrorIs(t, err, ErrDuplicate)
}
