package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Parse parses the main SDL input plus any fragments into a single
// document. Declaration order is preserved across sources, with the
// main input first.
func Parse(input string, fragments ...Fragment) (*Document, error) {
	sources := make([]*ast.Source, 0, len(fragments)+1)
	sources = append(sources, &ast.Source{Name: "schema.graphql", Input: input})
	for _, f := range fragments {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("fragment-%d.graphql", len(sources))
		}
		sources = append(sources, &ast.Source{Name: name, Input: f.Input})
	}
	return parseSources(sources)
}

// ParseFile parses a single SDL file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return parseSources([]*ast.Source{{Name: filepath.Base(path), Input: string(data)}})
}

// ParseDir parses every .graphql and .gql file in dir, merged in
// lexical file order so multi-file projects parse deterministically.
func ParseDir(dir string) (*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".graphql") || strings.HasSuffix(e.Name(), ".gql") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .graphql files found in %s", dir)
	}
	sort.Strings(names)

	sources := make([]*ast.Source, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		sources = append(sources, &ast.Source{Name: name, Input: string(data)})
	}
	return parseSources(sources)
}

func parseSources(sources []*ast.Source) (*Document, error) {
	doc, err := parser.ParseSchemas(sources...)
	if err != nil {
		return nil, invalidSchema(sources[0].Name, err)
	}
	return &Document{AST: doc, Sources: sources}, nil
}
