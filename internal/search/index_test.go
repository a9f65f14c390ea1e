package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmans/library/internal/library"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	cat, err := library.Seed()
	require.NoError(t, err)
	require.NoError(t, idx.IndexCatalog(cat))

	return idx
}

func TestIndexCatalog(t *testing.T) {
	idx := setupTestIndex(t)

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(11), count)
}

func TestSearchBooks(t *testing.T) {
	idx := setupTestIndex(t)

	t.Run("single term", func(t *testing.T) {
		ids, err := idx.SearchBooks("shadows", 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{7, 8}, ids)
	})

	t.Run("case insensitive", func(t *testing.T) {
		ids, err := idx.SearchBooks("AZKABAN", 0)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, ids)
	})

	t.Run("does not match authors", func(t *testing.T) {
		ids, err := idx.SearchBooks("Rowling", 0)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("kind is not searchable text", func(t *testing.T) {
		ids, err := idx.SearchBooks("book", 0)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("limit", func(t *testing.T) {
		ids, err := idx.SearchBooks("harry", 2)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("empty query", func(t *testing.T) {
		ids, err := idx.SearchBooks("   ", 0)
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})
}

func TestSearchAuthors(t *testing.T) {
	idx := setupTestIndex(t)

	ids, err := idx.SearchAuthors("tolkien", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids)

	ids, err = idx.SearchAuthors("shadows", 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexUpdates(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexBook(&library.Book{ID: 9, Name: "The Black Prism", AuthorID: 3}))
	ids, err := idx.SearchBooks("prism", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, ids)

	// Re-indexing under the same id replaces the document
	require.NoError(t, idx.IndexBook(&library.Book{ID: 9, Name: "The Blinding Knife", AuthorID: 3}))
	ids, err = idx.SearchBooks("prism", 0)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, idx.DeleteBook(7))
	ids, err = idx.SearchBooks("shadows", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, ids)

	require.NoError(t, idx.IndexAuthor(&library.Author{ID: 4, Name: "Ursula K. Le Guin"}))
	ids, err = idx.SearchAuthors("guin", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ids)

	require.NoError(t, idx.DeleteAuthor(4))
	ids, err = idx.SearchAuthors("guin", 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestParseDocID(t *testing.T) {
	id, ok := parseDocID(KindBook, "book:12")
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	_, ok = parseDocID(KindBook, "author:12")
	assert.False(t, ok)

	_, ok = parseDocID(KindBook, "book:x")
	assert.False(t, ok)
}
