// Package library defines the catalogue entities served by the GraphQL API.
package library

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Author is a writer of books.
type Author struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Book references its Author by AuthorID. The reference is not enforced:
// AuthorID may point at an author that was deleted or never existed.
type Book struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	AuthorID int    `json:"authorId" yaml:"author_id"`
}

// Clone returns a copy of the author.
func (a *Author) Clone() *Author {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// Clone returns a copy of the book.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}

// Catalog is a snapshot of both collections, in insertion order.
type Catalog struct {
	Authors []*Author `json:"authors" yaml:"authors"`
	Books   []*Book   `json:"books" yaml:"books"`
}

//go:embed seed.yaml
var seedData []byte

// Seed returns the catalogue the server starts with.
func Seed() (*Catalog, error) {
	return Parse(seedData)
}

// Parse decodes a YAML catalogue.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if cat.Authors == nil {
		cat.Authors = []*Author{}
	}
	if cat.Books == nil {
		cat.Books = []*Book{}
	}
	return &cat, nil
}
