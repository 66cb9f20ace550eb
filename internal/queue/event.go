// Package queue defines message payloads exchanged over the message broker.
package queue

// ArticlePublishedEvent is emitted when a new article is created.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ArticlePublishedEvent struct {
    ArticleID    uint64 `json:"article_id"`
    AuthorID     uint64 `json:"author_id"`
    Title        string `json:"title"`
    CategoryID   uint64 `json:"category_id,omitempty"`
    CategoryName string `json:"category_name,omitempty"`
    PublishedAt  string `json:"published_at"`
}

// ArticleDeletedEvent is emitted after a cascading article deletion
// commits.  The counts record how many dependent rows the cascade removed.
type ArticleDeletedEvent struct {
    ArticleID      uint64 `json:"article_id"`
    DeletedBy      uint64 `json:"deleted_by"`
    ReviewsDeleted int64  `json:"reviews_deleted"`
    LikesDeleted   int64  `json:"likes_deleted"`
    DeletedAt      string `json:"deleted_at"`
}
