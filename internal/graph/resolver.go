package graph

import "github.com/hmans/library/internal/librarycore"

// Resolver is the root resolver for the GraphQL schema.
// It holds a reference to librarycore.Core for data access.
type Resolver struct {
	Core *librarycore.Core
	// SearchLimit caps search results when the query gives no limit.
	SearchLimit int
}

// Query returns the resolver for the root Query type.
func (r *Resolver) Query() *queryResolver { return &queryResolver{r} }

// Mutation returns the resolver for the root Mutation type.
func (r *Resolver) Mutation() *mutationResolver { return &mutationResolver{r} }

// Book returns the resolver for Book fields.
func (r *Resolver) Book() *bookResolver { return &bookResolver{r} }

// Author returns the resolver for Author fields.
func (r *Resolver) Author() *authorResolver { return &authorResolver{r} }

type queryResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type bookResolver struct{ *Resolver }
type authorResolver struct{ *Resolver }
