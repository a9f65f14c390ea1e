package graph

import (
	"context"
	"errors"

	"github.com/hmans/library/internal/library"
	"github.com/hmans/library/internal/librarycore"
)

// Author is the resolver for the author field.
// A dangling authorId resolves to nil.
func (r *bookResolver) Author(ctx context.Context, obj *library.Book) (*library.Author, error) {
	return nilIfNotFound(r.Core.Author(obj.AuthorID))
}

// Books is the resolver for the books field.
func (r *authorResolver) Books(ctx context.Context, obj *library.Author) ([]*library.Book, error) {
	return r.Core.BooksByAuthor(obj.ID), nil
}

// AddBook is the resolver for the addBook field.
func (r *mutationResolver) AddBook(ctx context.Context, name string, authorID int) (*library.Book, error) {
	return r.Core.AddBook(name, authorID), nil
}

// EditBook is the resolver for the editBook field.
func (r *mutationResolver) EditBook(ctx context.Context, id int, name string, authorID int) (*library.Book, error) {
	return nilIfNotFound(r.Core.EditBook(id, name, authorID))
}

// DeleteBook is the resolver for the deleteBook field.
// Deleting an unknown id yields an empty list.
func (r *mutationResolver) DeleteBook(ctx context.Context, id int) ([]*library.Book, error) {
	remaining, err := r.Core.DeleteBook(id)
	if errors.Is(err, librarycore.ErrNotFound) {
		return []*library.Book{}, nil
	}
	return remaining, err
}

// AddAuthor is the resolver for the addAuthor field.
func (r *mutationResolver) AddAuthor(ctx context.Context, name string) (*library.Author, error) {
	return r.Core.AddAuthor(name), nil
}

// EditAuthor is the resolver for the editAuthor field.
func (r *mutationResolver) EditAuthor(ctx context.Context, id int, name string) (*library.Author, error) {
	return nilIfNotFound(r.Core.EditAuthor(id, name))
}

// DeleteAuthor is the resolver for the deleteAuthor field.
func (r *mutationResolver) DeleteAuthor(ctx context.Context, id int) ([]*library.Author, error) {
	remaining, err := r.Core.DeleteAuthor(id)
	if errors.Is(err, librarycore.ErrNotFound) {
		return []*library.Author{}, nil
	}
	return remaining, err
}

// Book is the resolver for the book field.
func (r *queryResolver) Book(ctx context.Context, id int) (*library.Book, error) {
	return nilIfNotFound(r.Core.Book(id))
}

// Books is the resolver for the books field.
func (r *queryResolver) Books(ctx context.Context) ([]*library.Book, error) {
	return r.Core.Books(), nil
}

// Author is the resolver for the author field.
func (r *queryResolver) Author(ctx context.Context, id int) (*library.Author, error) {
	return nilIfNotFound(r.Core.Author(id))
}

// Authors is the resolver for the authors field.
func (r *queryResolver) Authors(ctx context.Context) ([]*library.Author, error) {
	return r.Core.Authors(), nil
}

// SearchBooks is the resolver for the searchBooks field.
func (r *queryResolver) SearchBooks(ctx context.Context, query string, limit *int) ([]*library.Book, error) {
	return r.Core.SearchBooks(query, r.limit(limit))
}

// SearchAuthors is the resolver for the searchAuthors field.
func (r *queryResolver) SearchAuthors(ctx context.Context, query string, limit *int) ([]*library.Author, error) {
	return r.Core.SearchAuthors(query, r.limit(limit))
}

func (r *queryResolver) limit(limit *int) int {
	if limit != nil && *limit > 0 {
		return *limit
	}
	return r.SearchLimit
}

// nilIfNotFound turns a missing record into a null result.
func nilIfNotFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, librarycore.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
