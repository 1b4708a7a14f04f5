package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const todoSDL = `type Todo @model {
  id: ID!
  name: String!
  description: String
}
`

func TestParse(t *testing.T) {
	doc, err := Parse(todoSDL)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defs := doc.Definitions()
	if len(defs) != 1 {
		t.Fatalf("definitions = %d, want 1", len(defs))
	}
	if defs[0].Name != "Todo" {
		t.Errorf("definition name = %q", defs[0].Name)
	}
	if defs[0].Directives.ForName("model") == nil {
		t.Error("@model directive missing from parsed type")
	}
	if len(defs[0].Fields) != 3 {
		t.Errorf("fields = %d, want 3", len(defs[0].Fields))
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("type Todo {{")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var ise *InvalidSchemaError
	if !errors.As(err, &ise) {
		t.Fatalf("error type = %T, want *InvalidSchemaError", err)
	}
	if ise.Line == 0 {
		t.Errorf("error has no line information: %v", ise)
	}
}

func TestParseFragments(t *testing.T) {
	doc, err := Parse(todoSDL, Fragment{Name: "shared.graphql", Input: "type Tag { id: ID! label: String }"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defs := doc.Definitions()
	if len(defs) != 2 {
		t.Fatalf("definitions = %d, want 2", len(defs))
	}
	if defs[0].Name != "Todo" || defs[1].Name != "Tag" {
		t.Errorf("definition order = %s, %s; main input must come first", defs[0].Name, defs[1].Name)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.graphql")
	if err := os.WriteFile(path, []byte(todoSDL), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(doc.Definitions()) != 1 {
		t.Errorf("definitions = %d", len(doc.Definitions()))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.graphql")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseDirLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-comments.graphql": "type Comment { id: ID! }",
		"a-todos.graphql":    "type Todo { id: ID! }",
		"notes.txt":          "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	defs := doc.Definitions()
	if len(defs) != 2 {
		t.Fatalf("definitions = %d, want 2", len(defs))
	}
	if defs[0].Name != "Todo" || defs[1].Name != "Comment" {
		t.Errorf("definition order = %s, %s; want lexical file order", defs[0].Name, defs[1].Name)
	}
}

func TestParseDirEmpty(t *testing.T) {
	if _, err := ParseDir(t.TempDir()); err == nil {
		t.Error("expected error for directory without schema files")
	}
}

func TestHash(t *testing.T) {
	a, err := Parse(todoSDL)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(todoSDL)
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash() != b.Hash() {
		t.Error("same input must hash the same")
	}

	c, err := Parse(todoSDL + "\ntype Extra { id: ID! }")
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash() == c.Hash() {
		t.Error("different input must hash differently")
	}

	d, err := Parse(todoSDL, Fragment{Name: "x.graphql", Input: "type X { id: ID! }"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash() == d.Hash() {
		t.Error("adding a fragment must change the hash")
	}
}
