// Package librarycore provides a thread-safe in-memory store for the book
// and author collections, kept in step with a full-text search index.
package librarycore

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/hmans/library/internal/library"
	"github.com/hmans/library/internal/search"
)

var ErrNotFound = errors.New("record not found")

// Core owns the book and author collections.
//
// Records handed out by Core are copies; mutating them does not change the
// store. Ids come from monotonic counters and are never reused.
type Core struct {
	mu      sync.RWMutex
	authors []*library.Author
	books   []*library.Book

	nextAuthorID int
	nextBookID   int

	index  *search.Index
	logger *slog.Logger
}

// New creates an empty Core with its own search index.
func New(logger *slog.Logger) (*Core, error) {
	if logger == nil {
		logger = slog.Default()
	}

	idx, err := search.NewIndex()
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	return &Core{
		authors:      []*library.Author{},
		books:        []*library.Book{},
		nextAuthorID: 1,
		nextBookID:   1,
		index:        idx,
		logger:       logger,
	}, nil
}

// Load replaces both collections with the given catalogue. Id counters
// continue after the largest id present.
func (c *Core) Load(cat *library.Catalog) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	authors := lo.Map(cat.Authors, func(a *library.Author, _ int) *library.Author { return a.Clone() })
	books := lo.Map(cat.Books, func(b *library.Book, _ int) *library.Book { return b.Clone() })

	idx, err := search.NewIndex()
	if err != nil {
		return fmt.Errorf("creating search index: %w", err)
	}
	if err := idx.IndexCatalog(&library.Catalog{Authors: authors, Books: books}); err != nil {
		idx.Close()
		return fmt.Errorf("indexing catalog: %w", err)
	}
	if c.index != nil {
		c.index.Close()
	}

	c.authors = authors
	c.books = books
	c.index = idx
	c.nextAuthorID = lo.Reduce(authors, func(agg int, a *library.Author, _ int) int { return max(agg, a.ID) }, 0) + 1
	c.nextBookID = lo.Reduce(books, func(agg int, b *library.Book, _ int) int { return max(agg, b.ID) }, 0) + 1

	c.logger.Debug("catalog loaded", "authors", len(authors), "books", len(books))
	return nil
}

// LoadSeed loads the built-in seed catalogue.
func (c *Core) LoadSeed() error {
	cat, err := library.Seed()
	if err != nil {
		return err
	}
	return c.Load(cat)
}

// Close releases the search index.
func (c *Core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		return nil
	}
	err := c.index.Close()
	c.index = nil
	return err
}

// Snapshot returns a copy of both collections.
func (c *Core) Snapshot() *library.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &library.Catalog{
		Authors: cloneAuthors(c.authors),
		Books:   cloneBooks(c.books),
	}
}

// Books returns all books in insertion order.
func (c *Core) Books() []*library.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneBooks(c.books)
}

// Book returns the first book with the given id.
func (c *Core) Book(id int) (*library.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := lo.Find(c.books, func(b *library.Book) bool { return b.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

// BooksByAuthor returns the books whose AuthorID matches, in insertion order.
func (c *Core) BooksByAuthor(authorID int) []*library.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := lo.Filter(c.books, func(b *library.Book, _ int) bool { return b.AuthorID == authorID })
	return cloneBooks(matches)
}

// AddBook appends a new book. The author reference is not checked.
func (c *Core) AddBook(name string, authorID int) *library.Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := &library.Book{ID: c.nextBookID, Name: name, AuthorID: authorID}
	c.nextBookID++
	c.books = append(c.books, b)
	c.indexBook(b)

	return b.Clone()
}

// EditBook overwrites the name and author of an existing book in place.
func (c *Core) EditBook(id int, name string, authorID int) (*library.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := lo.Find(c.books, func(b *library.Book) bool { return b.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	b.Name = name
	b.AuthorID = authorID
	c.indexBook(b)

	return b.Clone(), nil
}

// DeleteBook removes a book and returns the books that remain.
func (c *Core) DeleteBook(id int) ([]*library.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, i, ok := lo.FindIndexOf(c.books, func(b *library.Book) bool { return b.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	c.books = slices.Delete(c.books, i, i+1)
	if c.index != nil {
		if err := c.index.DeleteBook(id); err != nil {
			c.logger.Warn("failed to remove book from search index", "id", id, "error", err)
		}
	}

	return cloneBooks(c.books), nil
}

// Authors returns all authors in insertion order.
func (c *Core) Authors() []*library.Author {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneAuthors(c.authors)
}

// Author returns the first author with the given id.
func (c *Core) Author(id int) (*library.Author, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := lo.Find(c.authors, func(a *library.Author) bool { return a.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

// AddAuthor appends a new author.
func (c *Core) AddAuthor(name string) *library.Author {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := &library.Author{ID: c.nextAuthorID, Name: name}
	c.nextAuthorID++
	c.authors = append(c.authors, a)
	c.indexAuthor(a)

	return a.Clone()
}

// EditAuthor overwrites the name of an existing author in place.
func (c *Core) EditAuthor(id int, name string) (*library.Author, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := lo.Find(c.authors, func(a *library.Author) bool { return a.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	a.Name = name
	c.indexAuthor(a)

	return a.Clone(), nil
}

// DeleteAuthor removes an author and returns the authors that remain.
// Books referencing the author are left untouched.
func (c *Core) DeleteAuthor(id int) ([]*library.Author, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, i, ok := lo.FindIndexOf(c.authors, func(a *library.Author) bool { return a.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	c.authors = slices.Delete(c.authors, i, i+1)
	if c.index != nil {
		if err := c.index.DeleteAuthor(id); err != nil {
			c.logger.Warn("failed to remove author from search index", "id", id, "error", err)
		}
	}

	return cloneAuthors(c.authors), nil
}

// SearchBooks returns books whose name matches the query, best match first.
func (c *Core) SearchBooks(query string, limit int) ([]*library.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.index == nil {
		return []*library.Book{}, nil
	}
	ids, err := c.index.SearchBooks(query, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*library.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := lo.Find(c.books, func(b *library.Book) bool { return b.ID == id }); ok {
			result = append(result, b.Clone())
		}
	}
	return result, nil
}

// SearchAuthors returns authors whose name matches the query, best match first.
func (c *Core) SearchAuthors(query string, limit int) ([]*library.Author, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.index == nil {
		return []*library.Author{}, nil
	}
	ids, err := c.index.SearchAuthors(query, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*library.Author, 0, len(ids))
	for _, id := range ids {
		if a, ok := lo.Find(c.authors, func(a *library.Author) bool { return a.ID == id }); ok {
			result = append(result, a.Clone())
		}
	}
	return result, nil
}

// indexBook updates the search index (must be called with lock held).
// Index failures are logged, not returned.
func (c *Core) indexBook(b *library.Book) {
	if c.index == nil {
		return
	}
	if err := c.index.IndexBook(b); err != nil {
		c.logger.Warn("failed to index book", "id", b.ID, "error", err)
	}
}

// indexAuthor updates the search index (must be called with lock held).
func (c *Core) indexAuthor(a *library.Author) {
	if c.index == nil {
		return
	}
	if err := c.index.IndexAuthor(a); err != nil {
		c.logger.Warn("failed to index author", "id", a.ID, "error", err)
	}
}

func cloneBooks(books []*library.Book) []*library.Book {
	return lo.Map(books, func(b *library.Book, _ int) *library.Book { return b.Clone() })
}

func cloneAuthors(authors []*library.Author) []*library.Author {
	return lo.Map(authors, func(a *library.Author, _ int) *library.Author { return a.Clone() })
}
