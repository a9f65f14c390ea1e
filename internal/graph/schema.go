package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/hmans/library/internal/library"
)

// NewSchema builds the executable schema, binding every field to the typed
// resolver methods of r. The schema is built once at startup.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	var bookType, authorType *graphql.Object

	bookType = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Book",
		Description: "A book written by an author",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.Int),
					Resolve: bookField(func(b *library.Book) any { return b.ID }),
				},
				"name": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.String),
					Resolve: bookField(func(b *library.Book) any { return b.Name }),
				},
				"authorId": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.Int),
					Resolve: bookField(func(b *library.Book) any { return b.AuthorID }),
				},
				"author": &graphql.Field{
					Type: authorType,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						b, err := bookSource(p)
						if err != nil {
							return nil, err
						}
						return nullable(r.Book().Author(p.Context, b))
					},
				},
			}
		}),
	})

	authorType = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Author",
		Description: "The author of a book",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.Int),
					Resolve: authorField(func(a *library.Author) any { return a.ID }),
				},
				"name": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.String),
					Resolve: authorField(func(a *library.Author) any { return a.Name }),
				},
				"books": &graphql.Field{
					Type: nonNullList(bookType),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						a, err := authorSource(p)
						if err != nil {
							return nil, err
						}
						return r.Author().Books(p.Context, a)
					},
				},
			}
		}),
	})

	idArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
	nameArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	authorIDArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
	searchArgs := graphql.FieldConfigArgument{
		"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"limit": &graphql.ArgumentConfig{Type: graphql.Int},
	}

	query := r.Query()
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Query",
		Description: "Root Query",
		Fields: graphql.Fields{
			"book": &graphql.Field{
				Type:        bookType,
				Description: "A single book",
				Args:        graphql.FieldConfigArgument{"id": idArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nullable(query.Book(p.Context, intArg(p, "id")))
				},
			},
			"books": &graphql.Field{
				Type:        nonNullList(bookType),
				Description: "List of all books",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return query.Books(p.Context)
				},
			},
			"author": &graphql.Field{
				Type:        authorType,
				Description: "A single author",
				Args:        graphql.FieldConfigArgument{"id": idArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nullable(query.Author(p.Context, intArg(p, "id")))
				},
			},
			"authors": &graphql.Field{
				Type:        nonNullList(authorType),
				Description: "List of all authors",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return query.Authors(p.Context)
				},
			},
			"searchBooks": &graphql.Field{
				Type:        nonNullList(bookType),
				Description: "Full-text search over book names",
				Args:        searchArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return query.SearchBooks(p.Context, stringArg(p, "query"), optionalIntArg(p, "limit"))
				},
			},
			"searchAuthors": &graphql.Field{
				Type:        nonNullList(authorType),
				Description: "Full-text search over author names",
				Args:        searchArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return query.SearchAuthors(p.Context, stringArg(p, "query"), optionalIntArg(p, "limit"))
				},
			},
		},
	})

	mutation := r.Mutation()
	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Mutation",
		Description: "Root Mutation",
		Fields: graphql.Fields{
			"addBook": &graphql.Field{
				Type:        graphql.NewNonNull(bookType),
				Description: "Add a book",
				Args:        graphql.FieldConfigArgument{"name": nameArg, "authorId": authorIDArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return mutation.AddBook(p.Context, stringArg(p, "name"), intArg(p, "authorId"))
				},
			},
			"editBook": &graphql.Field{
				Type:        bookType,
				Description: "Edit a book",
				Args:        graphql.FieldConfigArgument{"id": idArg, "name": nameArg, "authorId": authorIDArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nullable(mutation.EditBook(p.Context, intArg(p, "id"), stringArg(p, "name"), intArg(p, "authorId")))
				},
			},
			"deleteBook": &graphql.Field{
				Type:        nonNullList(bookType),
				Description: "Delete a book",
				Args:        graphql.FieldConfigArgument{"id": idArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return mutation.DeleteBook(p.Context, intArg(p, "id"))
				},
			},
			"addAuthor": &graphql.Field{
				Type:        graphql.NewNonNull(authorType),
				Description: "Add an author",
				Args:        graphql.FieldConfigArgument{"name": nameArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return mutation.AddAuthor(p.Context, stringArg(p, "name"))
				},
			},
			"editAuthor": &graphql.Field{
				Type:        authorType,
				Description: "Edit an author",
				Args:        graphql.FieldConfigArgument{"id": idArg, "name": nameArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nullable(mutation.EditAuthor(p.Context, intArg(p, "id"), stringArg(p, "name")))
				},
			},
			"deleteAuthor": &graphql.Field{
				Type:        nonNullList(authorType),
				Description: "Delete an author",
				Args:        graphql.FieldConfigArgument{"id": idArg},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return mutation.DeleteAuthor(p.Context, intArg(p, "id"))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// Do executes a request against schema.
func Do(ctx context.Context, schema graphql.Schema, query string, variables map[string]any, operationName string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		OperationName:  operationName,
		Context:        ctx,
	})
}

func nonNullList(t graphql.Type) *graphql.NonNull {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

// nullable keeps a nil record from reaching the executor as a typed nil.
func nullable[T any](v *T, err error) (any, error) {
	if err != nil || v == nil {
		return nil, err
	}
	return v, nil
}

func bookSource(p graphql.ResolveParams) (*library.Book, error) {
	switch s := p.Source.(type) {
	case *library.Book:
		return s, nil
	case library.Book:
		return &s, nil
	}
	return nil, fmt.Errorf("unexpected source %T for Book.%s", p.Source, p.Info.FieldName)
}

func authorSource(p graphql.ResolveParams) (*library.Author, error) {
	switch s := p.Source.(type) {
	case *library.Author:
		return s, nil
	case library.Author:
		return &s, nil
	}
	return nil, fmt.Errorf("unexpected source %T for Author.%s", p.Source, p.Info.FieldName)
}

func bookField(get func(*library.Book) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		b, err := bookSource(p)
		if err != nil {
			return nil, err
		}
		return get(b), nil
	}
}

func authorField(get func(*library.Author) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		a, err := authorSource(p)
		if err != nil {
			return nil, err
		}
		return get(a), nil
	}
}

// Non-null arguments are coerced by the executor before resolvers run.
func intArg(p graphql.ResolveParams, name string) int {
	v, _ := p.Args[name].(int)
	return v
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func optionalIntArg(p graphql.ResolveParams, name string) *int {
	v, ok := p.Args[name].(int)
	if !ok {
		return nil
	}
	return &v
}
