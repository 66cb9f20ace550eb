package model

import "time"

// Like type values stored in likes.type.
const (
    LikeUpvote   = "upvote"
    LikeDownvote = "downvote"
)

// ValidLikeType reports whether s is one of the two enumerated like types.
func ValidLikeType(s string) bool {
    return s == LikeUpvote || s == LikeDownvote
}

// Like records a single up- or downvote on an article.  As with reviews,
// a unique index on (user_id, article_id) caps each user at one like per
// article.
type Like struct {
    ID        uint64    // likes.id
    UserID    uint64    // likes.user_id
    ArticleID uint64    // likes.article_id
    Type      string    // likes.type ("upvote" | "downvote")
    CreatedAt time.Time // likes.created_at
    UpdatedAt time.Time // likes.updated_at
}
