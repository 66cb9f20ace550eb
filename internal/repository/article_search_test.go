package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArticleSearchEmpty(t *testing.T) {
	cond, args := buildArticleSearch(ArticleSearchQuery{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildArticleSearchSingleFilters(t *testing.T) {
	cond, args := buildArticleSearch(ArticleSearchQuery{AuthorID: 3})
	assert.Equal(t, "a.author_id = ?", cond)
	assert.Equal(t, []any{uint64(3)}, args)

	cond, args = buildArticleSearch(ArticleSearchQuery{Title: "Go"})
	assert.Equal(t, "LOWER(a.title) LIKE ?", cond)
	assert.Equal(t, []any{"%go%"}, args)
}

func TestBuildArticleSearchCombined(t *testing.T) {
	cond, args := buildArticleSearch(ArticleSearchQuery{
		AuthorID:   1,
		CategoryID: 2,
		Title:      "News",
		Content:    "Launch",
	})
	assert.Equal(t,
		"a.author_id = ? AND a.category_id = ? AND LOWER(a.title) LIKE ? AND LOWER(a.content) LIKE ?",
		cond)
	assert.Equal(t, []any{uint64(1), uint64(2), "%news%", "%launch%"}, args)
}
