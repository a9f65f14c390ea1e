package graph

import (
	"bytes"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// SDL renders the object types of schema as GraphQL schema definition
// language. Built-in scalars and introspection types are omitted.
func SDL(schema graphql.Schema) string {
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(toAST(schema))
	return buf.String()
}

// toAST converts a graphql-go schema into a gqlparser schema document.
func toAST(schema graphql.Schema) *ast.Schema {
	pos := &ast.Position{Src: &ast.Source{Name: "library"}}
	doc := &ast.Schema{
		Types: make(map[string]*ast.Definition),
	}

	for name, t := range schema.TypeMap() {
		if strings.HasPrefix(name, "__") {
			continue
		}
		obj, ok := t.(*graphql.Object)
		if !ok {
			continue
		}

		def := &ast.Definition{
			Kind:        ast.Object,
			Name:        obj.Name(),
			Description: obj.Description(),
			Position:    pos,
		}

		fields := obj.Fields()
		names := make([]string, 0, len(fields))
		for fieldName := range fields {
			names = append(names, fieldName)
		}
		sort.Strings(names)

		for _, fieldName := range names {
			field := fields[fieldName]
			fd := &ast.FieldDefinition{
				Name:        field.Name,
				Description: field.Description,
				Type:        toASTType(field.Type, pos),
				Position:    pos,
			}

			args := append([]*graphql.Argument(nil), field.Args...)
			sort.Slice(args, func(i, j int) bool { return args[i].Name() < args[j].Name() })
			for _, arg := range args {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
					Name:     arg.Name(),
					Type:     toASTType(arg.Type, pos),
					Position: pos,
				})
			}

			def.Fields = append(def.Fields, fd)
		}

		doc.Types[def.Name] = def
	}

	if q := schema.QueryType(); q != nil {
		doc.Query = doc.Types[q.Name()]
	}
	if m := schema.MutationType(); m != nil {
		doc.Mutation = doc.Types[m.Name()]
	}

	return doc
}

func toASTType(t graphql.Type, pos *ast.Position) *ast.Type {
	switch t := t.(type) {
	case *graphql.NonNull:
		inner := toASTType(t.OfType, pos)
		inner.NonNull = true
		return inner
	case *graphql.List:
		return ast.ListType(toASTType(t.OfType, pos), pos)
	default:
		return ast.NamedType(t.Name(), pos)
	}
}
