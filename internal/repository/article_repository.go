package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"inkwell/internal/model"
)

type ArticleRepo struct{ DB *sql.DB }

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{DB: db} }

const articleColumns = "id,author_id,category_id,title,content,image,created_at,updated_at"

func scanArticle(sc interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	err := sc.Scan(&a.ID, &a.AuthorID, &a.CategoryID, &a.Title, &a.Content,
		&a.Image, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// Create inserts an article and returns the stored record.
func (r *ArticleRepo) Create(ctx context.Context, authorID uint64, categoryID *uint64, title, content, image string) (model.Article, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO articles (author_id, category_id, title, content, image) VALUES (?,?,?,?,?)",
		authorID, categoryID, title, content, image)
	if err != nil {
		return model.Article{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Article{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single article.
func (r *ArticleRepo) GetByID(ctx context.Context, id uint64) (model.Article, error) {
	return scanArticle(r.DB.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id=? LIMIT 1", id))
}

// GetAll returns every article in insertion order.
func (r *ArticleRepo) GetAll(ctx context.Context) ([]model.Article, error) {
	return r.queryArticles(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY id")
}

// GetByAuthor returns all articles written by the given user, used by the
// profile endpoint.
func (r *ArticleRepo) GetByAuthor(ctx context.Context, authorID uint64) ([]model.Article, error) {
	return r.queryArticles(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE author_id=? ORDER BY id", authorID)
}

func (r *ArticleRepo) queryArticles(ctx context.Context, query string, args ...any) ([]model.Article, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ArticleUpdate carries the optional fields of an article update. Nil
// pointers leave the corresponding column untouched. SetCategory
// distinguishes "leave category alone" from "set it to CategoryID".
type ArticleUpdate struct {
	Title       *string
	Content     *string
	Image       *string
	SetCategory bool
	CategoryID  *uint64
}

// Empty reports whether the update would touch nothing.
func (u ArticleUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Image == nil && !u.SetCategory
}

// Update applies the non-empty fields of upd and refreshes updated_at.
func (r *ArticleRepo) Update(ctx context.Context, id uint64, upd ArticleUpdate) error {
	set := []string{}
	args := []any{}
	if upd.Title != nil {
		set = append(set, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		set = append(set, "content=?")
		args = append(args, *upd.Content)
	}
	if upd.Image != nil {
		set = append(set, "image=?")
		args = append(args, *upd.Image)
	}
	if upd.SetCategory {
		set = append(set, "category_id=?")
		args = append(args, upd.CategoryID)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)

	_, err := r.DB.ExecContext(ctx,
		"UPDATE articles SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	return err
}

// CascadeResult reports what a cascading article deletion removed, for the
// lifecycle event published after commit.
type CascadeResult struct {
	ReviewsDeleted int64
	LikesDeleted   int64
	Image          string
}

// DeleteCascade removes an article together with its reviews and likes.
// The whole sequence runs inside one transaction so a failure partway
// through leaves no orphaned rows: dependents are removed before the
// parent. The article's stored image path is returned so the caller can
// unlink the file after the transaction commits (file operations cannot
// participate in the transaction).
func (r *ArticleRepo) DeleteCascade(ctx context.Context, id uint64) (out CascadeResult, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	// Rollback on error; a failed commit is reported to the caller so it
	// does not unlink the image for a delete that never happened.
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = tx.QueryRowContext(ctx, "SELECT image FROM articles WHERE id=?", id).Scan(&out.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return out, err
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM reviews WHERE article_id=?", id); err != nil {
		return out, err
	}
	out.ReviewsDeleted, _ = res.RowsAffected()

	if res, err = tx.ExecContext(ctx, "DELETE FROM likes WHERE article_id=?", id); err != nil {
		return out, err
	}
	out.LikesDeleted, _ = res.RowsAffected()

	if _, err = tx.ExecContext(ctx, "DELETE FROM articles WHERE id=?", id); err != nil {
		return out, err
	}
	return out, nil
}
