package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/hmans/library/internal/config"
	"github.com/hmans/library/internal/librarycore"
	"github.com/hmans/library/internal/logging"
)

func setupQueryTestCore(t *testing.T) (*librarycore.Core, func()) {
	t.Helper()

	testCore, err := librarycore.New(logging.Discard())
	if err != nil {
		t.Fatalf("failed to create core: %v", err)
	}
	if err := testCore.LoadSeed(); err != nil {
		t.Fatalf("failed to load seed: %v", err)
	}

	// Save and restore the globals
	oldCore, oldCfg := core, cfg
	core = testCore
	cfg = config.Default()

	cleanup := func() {
		_ = testCore.Close()
		core, cfg = oldCore, oldCfg
	}

	return testCore, cleanup
}

func TestExecuteQuery(t *testing.T) {
	_, cleanup := setupQueryTestCore(t)
	defer cleanup()

	t.Run("all books", func(t *testing.T) {
		result, err := executeQuery(`{ books { id name } }`, nil, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}

		var data struct {
			Books []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"books"`
		}
		if err := json.Unmarshal(result, &data); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if len(data.Books) != 8 {
			t.Errorf("expected 8 books, got %d", len(data.Books))
		}
		if data.Books[0].Name != "Harry Potter and the Chamber of Secrets" {
			t.Errorf("unexpected first book %q", data.Books[0].Name)
		}
	})

	t.Run("book with author", func(t *testing.T) {
		result, err := executeQuery(`{ book(id: 4) { name author { name } } }`, nil, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}

		var data struct {
			Book struct {
				Name   string `json:"name"`
				Author struct {
					Name string `json:"name"`
				} `json:"author"`
			} `json:"book"`
		}
		if err := json.Unmarshal(result, &data); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if data.Book.Author.Name != "J. R. R. Tolkien" {
			t.Errorf("expected Tolkien, got %q", data.Book.Author.Name)
		}
	})

	t.Run("missing book is null", func(t *testing.T) {
		result, err := executeQuery(`{ book(id: 999) { id } }`, nil, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}
		if string(result) != `{"book":null}` {
			t.Errorf("expected null book, got %s", result)
		}
	})

	t.Run("with variables", func(t *testing.T) {
		query := `query GetAuthor($id: Int!) { author(id: $id) { name books { id } } }`
		result, err := executeQuery(query, map[string]any{"id": 3}, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}

		var data struct {
			Author struct {
				Name  string `json:"name"`
				Books []struct {
					ID int `json:"id"`
				} `json:"books"`
			} `json:"author"`
		}
		if err := json.Unmarshal(result, &data); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if data.Author.Name != "Brent Weeks" || len(data.Author.Books) != 2 {
			t.Errorf("unexpected author %+v", data.Author)
		}
	})

	t.Run("named operation", func(t *testing.T) {
		query := `
			query First { book(id: 1) { id } }
			query Second { book(id: 2) { id } }
		`
		result, err := executeQuery(query, nil, "Second")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}
		if string(result) != `{"book":{"id":2}}` {
			t.Errorf("unexpected result %s", result)
		}
	})

	t.Run("mutation", func(t *testing.T) {
		result, err := executeQuery(`mutation { addAuthor(name: "Ursula K. Le Guin") { id name } }`, nil, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}
		if string(result) != `{"addAuthor":{"id":4,"name":"Ursula K. Le Guin"}}` {
			t.Errorf("unexpected result %s", result)
		}
		if len(core.Authors()) != 4 {
			t.Errorf("expected 4 authors after mutation, got %d", len(core.Authors()))
		}
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := executeQuery(`{ books { nope } }`, nil, "")
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.HasPrefix(err.Error(), "graphql") {
			t.Errorf("expected graphql error, got %v", err)
		}
	})
}

func TestFormatGraphQLErrors(t *testing.T) {
	if err := formatGraphQLErrors(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err := formatGraphQLErrors([]gqlerrors.FormattedError{{Message: "boom"}})
	if err == nil || err.Error() != "graphql: boom" {
		t.Errorf("unexpected single error %v", err)
	}

	err = formatGraphQLErrors([]gqlerrors.FormattedError{{Message: "one"}, {Message: "two"}})
	if err == nil || err.Error() != "graphql errors:\n  one\n  two" {
		t.Errorf("unexpected multi error %v", err)
	}
}

func TestGetGraphQLSchema(t *testing.T) {
	_, cleanup := setupQueryTestCore(t)
	defer cleanup()

	sdl, err := GetGraphQLSchema()
	if err != nil {
		t.Fatalf("GetGraphQLSchema() error = %v", err)
	}
	for _, want := range []string{"type Query", "type Mutation", "type Book", "type Author", "deleteBook("} {
		if !strings.Contains(sdl, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}

func TestGraphQLCommandSchemaFlag(t *testing.T) {
	_, cleanup := setupQueryTestCore(t)
	defer cleanup()

	querySchemaOnly = true
	defer func() { querySchemaOnly = false }()

	var out bytes.Buffer
	graphqlCmd.SetOut(&out)
	defer graphqlCmd.SetOut(nil)

	if err := graphqlCmd.RunE(graphqlCmd, nil); err != nil {
		t.Fatalf("RunE() error = %v", err)
	}
	if !strings.Contains(out.String(), "type Book") {
		t.Errorf("expected schema output, got %q", out.String())
	}
}
