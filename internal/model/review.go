package model

import "time"

// Review is a user's written comment on an article.  The database
// enforces at most one review per (user, article) pair via a unique
// index on (user_id, article_id).
type Review struct {
    ID        uint64    // reviews.id
    UserID    uint64    // reviews.user_id
    ArticleID uint64    // reviews.article_id
    Content   string    // reviews.content
    CreatedAt time.Time // reviews.created_at
    UpdatedAt time.Time // reviews.updated_at
}
