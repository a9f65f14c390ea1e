// Package search provides full-text search over the catalogue using Bleve.
package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hmans/library/internal/library"
)

// Document kinds stored in the index.
const (
	KindBook   = "book"
	KindAuthor = "author"
)

// DefaultSearchLimit is the default maximum number of search results.
const DefaultSearchLimit = 1000

// Index wraps a Bleve in-memory index for searching books and authors.
type Index struct {
	index bleve.Index
}

// document is the structure stored in the Bleve index.
type document struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	return &Index{index: idx}, nil
}

// buildIndexMapping creates the Bleve index mapping for catalogue documents.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	// kind is matched exactly and must not leak into free-text queries
	kindFieldMapping := bleve.NewKeywordFieldMapping()
	kindFieldMapping.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("kind", kindFieldMapping)
	docMapping.AddFieldMappingsAt("name", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

func docID(kind string, id int) string {
	return kind + ":" + strconv.Itoa(id)
}

func parseDocID(kind, docID string) (int, bool) {
	rest, ok := strings.CutPrefix(docID, kind+":")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IndexBook adds or updates a book in the search index.
func (idx *Index) IndexBook(b *library.Book) error {
	return idx.index.Index(docID(KindBook, b.ID), document{Kind: KindBook, Name: b.Name})
}

// IndexAuthor adds or updates an author in the search index.
func (idx *Index) IndexAuthor(a *library.Author) error {
	return idx.index.Index(docID(KindAuthor, a.ID), document{Kind: KindAuthor, Name: a.Name})
}

// DeleteBook removes a book from the search index.
func (idx *Index) DeleteBook(id int) error {
	return idx.index.Delete(docID(KindBook, id))
}

// DeleteAuthor removes an author from the search index.
func (idx *Index) DeleteAuthor(id int) error {
	return idx.index.Delete(docID(KindAuthor, id))
}

// IndexCatalog indexes a whole catalogue in one batch.
func (idx *Index) IndexCatalog(cat *library.Catalog) error {
	batch := idx.index.NewBatch()
	for _, a := range cat.Authors {
		if err := batch.Index(docID(KindAuthor, a.ID), document{Kind: KindAuthor, Name: a.Name}); err != nil {
			return err
		}
	}
	for _, b := range cat.Books {
		if err := batch.Index(docID(KindBook, b.ID), document{Kind: KindBook, Name: b.Name}); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// Count returns the number of indexed documents.
func (idx *Index) Count() (uint64, error) {
	return idx.index.DocCount()
}

// SearchBooks returns ids of books matching queryStr, best match first.
func (idx *Index) SearchBooks(queryStr string, limit int) ([]int, error) {
	return idx.search(KindBook, queryStr, limit)
}

// SearchAuthors returns ids of authors matching queryStr, best match first.
func (idx *Index) SearchAuthors(queryStr string, limit int) ([]int, error) {
	return idx.search(KindAuthor, queryStr, limit)
}

// search executes a query restricted to one document kind.
// The limit parameter controls the maximum number of results (0 uses DefaultSearchLimit).
func (idx *Index) search(kind, queryStr string, limit int) ([]int, error) {
	if strings.TrimSpace(queryStr) == "" {
		return []int{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Query string syntax supports terms, phrases, wildcards and
	// field-specific clauses such as "name:shadows".
	kindQuery := bleve.NewTermQuery(kind)
	kindQuery.SetField("kind")
	q := bleve.NewConjunctionQuery(bleve.NewQueryStringQuery(queryStr), kindQuery)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = limit

	result, err := idx.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("searching %ss: %w", kind, err)
	}

	ids := make([]int, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if id, ok := parseDocID(kind, hit.ID); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}
