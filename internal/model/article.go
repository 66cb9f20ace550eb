package model

import "time"

// Article represents a published piece of content.  Articles are linked
// to their author and optionally to a category, and may carry an
// uploaded cover image whose filesystem path is stored on the record.
//
// Fields:
//  ID         – primary key identifier.
//  AuthorID   – user who created the article; immutable after creation.
//  CategoryID – optional category reference (nil when uncategorized).
//  Title      – required headline.
//  Content    – required body text.
//  Image      – filesystem path of the uploaded cover image ("" when unset).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Article struct {
    ID         uint64    // articles.id
    AuthorID   uint64    // articles.author_id
    CategoryID *uint64   // articles.category_id (nullable)
    Title      string    // articles.title
    Content    string    // articles.content
    Image      string    // articles.image
    CreatedAt  time.Time // articles.created_at
    UpdatedAt  time.Time // articles.updated_at
}
