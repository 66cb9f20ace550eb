package repository

import (
	"context"
	"database/sql"
	"errors"

	"inkwell/internal/model"
)

type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

const likeColumns = "id,user_id,article_id,type,created_at,updated_at"

func scanLike(sc interface{ Scan(...any) error }) (model.Like, error) {
	var l model.Like
	err := sc.Scan(&l.ID, &l.UserID, &l.ArticleID, &l.Type, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// Create inserts a like. The unique (user_id, article_id) index turns a
// second like on the same article into ErrDuplicate.
func (r *LikeRepo) Create(ctx context.Context, userID, articleID uint64, likeType string) (model.Like, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO likes (user_id, article_id, type) VALUES (?,?,?)",
		userID, articleID, likeType)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Like{}, ErrDuplicate
		}
		return model.Like{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Like{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *LikeRepo) GetByID(ctx context.Context, id uint64) (model.Like, error) {
	return scanLike(r.DB.QueryRowContext(ctx,
		"SELECT "+likeColumns+" FROM likes WHERE id=? LIMIT 1", id))
}

// ExistsForUserAndArticle reports whether the user already liked or
// disliked the article.
func (r *LikeRepo) ExistsForUserAndArticle(ctx context.Context, userID, articleID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM likes WHERE user_id=? AND article_id=? LIMIT 1",
		userID, articleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAll returns every like in insertion order.
func (r *LikeRepo) GetAll(ctx context.Context) ([]model.Like, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+likeColumns+" FROM likes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Like{}
	for rows.Next() {
		l, err := scanLike(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LikeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM likes WHERE id=?", id)
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
