package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryRefBlank(t *testing.T) {
	_, ok := ParseCategoryRef("")
	assert.False(t, ok)

	_, ok = ParseCategoryRef("   ")
	assert.False(t, ok)
}

func TestParseCategoryRefNumeric(t *testing.T) {
	ref, ok := ParseCategoryRef("12")
	assert.True(t, ok)
	assert.Equal(t, uint64(12), ref.ID)
	// The raw text is retained so Resolve can fall back to a name lookup
	// when no category has that id.
	assert.Equal(t, "12", ref.Name)
}

func TestParseCategoryRefName(t *testing.T) {
	ref, ok := ParseCategoryRef("Tech")
	assert.True(t, ok)
	assert.Zero(t, ref.ID)
	assert.Equal(t, "Tech", ref.Name)
}

func TestParseCategoryRefZeroID(t *testing.T) {
	// "0" is not a valid id; treat it as a name.
	ref, ok := ParseCategoryRef("0")
	assert.True(t, ok)
	assert.Zero(t, ref.ID)
	assert.Equal(t, "0", ref.Name)
}
