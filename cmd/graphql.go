package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/graphql-go/graphql/gqlerrors"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/hmans/library/internal/graph"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	queryJSON       bool
	queryVariables  string
	queryOperation  string
	querySchemaOnly bool
)

var graphqlCmd = &cobra.Command{
	Use:     "graphql <query>",
	Aliases: []string{"query"},
	Short:   "Execute a GraphQL query or mutation",
	Long: `Execute a GraphQL query or mutation against a freshly seeded catalogue.

The argument should be a valid GraphQL query or mutation string. Changes made
by a mutation only last for the duration of the command.

Examples:
  # List all books
  library graphql '{ books { id name } }'

  # Get a book with its author
  library graphql '{ book(id: 1) { name author { name } } }'

  # Get an author with their books
  library graphql '{ author(id: 2) { name books { name } } }'

  # Search books by name
  library graphql '{ searchBooks(query: "shadows") { id name } }'

  # Use variables
  library graphql -v '{"id": 1}' 'query GetBook($id: Int!) { book(id: $id) { name } }'

  # Read from stdin (useful for complex queries or escaping issues)
  echo '{ authors { id name } }' | library graphql

  # Print the schema
  library graphql --schema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return nil
		}
		// Allow 0 args if stdin has data, or exactly 1 arg
		if len(args) > 1 {
			return fmt.Errorf("accepts at most 1 argument (the GraphQL query)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// Schema-only mode
		if querySchemaOnly {
			sdl, err := GetGraphQLSchema()
			if err != nil {
				return err
			}
			fmt.Fprint(out, sdl)
			return nil
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		} else {
			stdinQuery, err := readFromStdin()
			if err != nil {
				return err
			}
			if stdinQuery == "" {
				return fmt.Errorf("no query provided (pass as argument or pipe to stdin)")
			}
			query = stdinQuery
		}

		var variables map[string]any
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("invalid variables JSON: %w", err)
			}
		}

		result, err := executeQuery(query, variables, queryOperation)
		if err != nil {
			return err
		}

		if queryJSON {
			fmt.Fprintln(out, string(result))
		} else {
			fmt.Fprintln(out, string(pretty.Color(pretty.Pretty(result), nil)))
		}

		return nil
	},
}

// readFromStdin reads the query from stdin if data is available.
func readFromStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("checking stdin: %w", err)
	}

	// If stdin is a terminal (no pipe), return empty
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// executeQuery runs a GraphQL query against the library core.
// On success, it returns just the data portion of the response.
// On error, it returns an error so the CLI can handle it appropriately.
func executeQuery(query string, variables map[string]any, operationName string) ([]byte, error) {
	schema, err := graph.NewSchema(newResolver())
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}

	result := graph.Do(context.Background(), schema, query, variables, operationName)
	if result.HasErrors() {
		return nil, formatGraphQLErrors(result.Errors)
	}

	return json.Marshal(result.Data)
}

// formatGraphQLErrors formats GraphQL errors into a single error.
func formatGraphQLErrors(errs []gqlerrors.FormattedError) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("graphql: %s", errs[0].Message)
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}

// GetGraphQLSchema returns the GraphQL schema as SDL.
func GetGraphQLSchema() (string, error) {
	schema, err := graph.NewSchema(newResolver())
	if err != nil {
		return "", fmt.Errorf("building schema: %w", err)
	}
	return graph.SDL(schema), nil
}

func init() {
	graphqlCmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw JSON (no formatting)")
	graphqlCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	graphqlCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	graphqlCmd.Flags().BoolVar(&querySchemaOnly, "schema", false, "Print the GraphQL schema and exit")
	rootCmd.AddCommand(graphqlCmd)
}
