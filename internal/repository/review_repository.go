package repository

import (
	"context"
	"database/sql"
	"errors"

	"inkwell/internal/model"
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "id,user_id,article_id,content,created_at,updated_at"

func scanReview(sc interface{ Scan(...any) error }) (model.Review, error) {
	var rv model.Review
	err := sc.Scan(&rv.ID, &rv.UserID, &rv.ArticleID, &rv.Content, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rv, ErrNotFound
	}
	return rv, err
}

// Create inserts a review. The unique (user_id, article_id) index turns a
// second review for the same article into ErrDuplicate.
func (r *ReviewRepo) Create(ctx context.Context, userID, articleID uint64, content string) (model.Review, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, article_id, content) VALUES (?,?,?)",
		userID, articleID, content)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Review{}, ErrDuplicate
		}
		return model.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Review{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	return scanReview(r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id=? LIMIT 1", id))
}

// ExistsForUserAndArticle reports whether the user already reviewed the article.
func (r *ReviewRepo) ExistsForUserAndArticle(ctx context.Context, userID, articleID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reviews WHERE user_id=? AND article_id=? LIMIT 1",
		userID, articleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAll returns every review in insertion order.
func (r *ReviewRepo) GetAll(ctx context.Context) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// UpdateContent replaces the review body and refreshes updated_at.
func (r *ReviewRepo) UpdateContent(ctx context.Context, id uint64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET content=?, updated_at=NOW() WHERE id=?", content, id)
	return err
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
