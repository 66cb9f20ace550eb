package repository

import "context"

// ReviewWithUser is a review row joined with the reviewing user's display
// name, as embedded in article read responses.
type ReviewWithUser struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	ArticleID uint64 `json:"article_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// LikeWithUser is a like row joined with the liking user's display name.
type LikeWithUser struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	ArticleID uint64 `json:"article_id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// FetchReviewsAndLikes assembles an article's reviews and likes for read
// responses, each carrying the referencing user's username. A LEFT JOIN
// keeps rows whose author account was deleted (the user delete path does
// not cascade); those rows show an empty username. Both sequences come
// back in insertion order.
func (r *ArticleRepo) FetchReviewsAndLikes(ctx context.Context, articleID uint64) ([]ReviewWithUser, []LikeWithUser, error) {
	reviews := []ReviewWithUser{}
	rows, err := r.DB.QueryContext(ctx, `SELECT
			rv.id, rv.user_id, COALESCE(u.username, ''), rv.article_id, rv.content,
			DATE_FORMAT(rv.created_at, '%Y-%m-%d %T'),
			DATE_FORMAT(rv.updated_at, '%Y-%m-%d %T')
		FROM reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.article_id = ?
		ORDER BY rv.id ASC`, articleID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rv ReviewWithUser
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.Username, &rv.ArticleID,
			&rv.Content, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, nil, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	likes := []LikeWithUser{}
	lrows, err := r.DB.QueryContext(ctx, `SELECT
			l.id, l.user_id, COALESCE(u.username, ''), l.article_id, l.type,
			DATE_FORMAT(l.created_at, '%Y-%m-%d %T')
		FROM likes l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.article_id = ?
		ORDER BY l.id ASC`, articleID)
	if err != nil {
		return nil, nil, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var l LikeWithUser
		if err := lrows.Scan(&l.ID, &l.UserID, &l.Username, &l.ArticleID,
			&l.Type, &l.CreatedAt); err != nil {
			return nil, nil, err
		}
		likes = append(likes, l)
	}
	if err := lrows.Err(); err != nil {
		return nil, nil, err
	}
	return reviews, likes, nil
}
