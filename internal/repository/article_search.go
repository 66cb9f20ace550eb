package repository

import (
	"context"
	"strings"

	"inkwell/internal/model"
)

// ArticleSearchQuery defines filters & pagination for searching articles.
// Zero values impose no constraint; all provided filters are ANDed.
type ArticleSearchQuery struct {
	AuthorID   uint64 // exact author id
	CategoryID uint64 // exact category id
	Title      string // case-insensitive substring on title
	Content    string // case-insensitive substring on content
	Page       int
	PageSize   int
}

// buildArticleSearch translates a query into a WHERE condition and its
// arguments. Split out from Search so the SQL assembly is testable
// without a database.
func buildArticleSearch(q ArticleSearchQuery) (cond string, args []any) {
	where := []string{}
	if q.AuthorID != 0 {
		where = append(where, "a.author_id = ?")
		args = append(args, q.AuthorID)
	}
	if q.CategoryID != 0 {
		where = append(where, "a.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.Title != "" {
		where = append(where, "LOWER(a.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Content != "" {
		where = append(where, "LOWER(a.content) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Content)+"%")
	}
	cond = "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search returns the page of articles matching q plus the total match count.
func (r *ArticleRepo) Search(ctx context.Context, q ArticleSearchQuery) ([]model.Article, int64, error) {
	cond, args := buildArticleSearch(q)

	var total int64
	countSQL := `SELECT COUNT(*) FROM articles a WHERE ` + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT a.id,a.author_id,a.category_id,a.title,a.content,a.image,a.created_at,a.updated_at
		FROM articles a
		WHERE ` + cond + `
		ORDER BY a.id ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
