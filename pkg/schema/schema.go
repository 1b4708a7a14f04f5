// Package schema parses GraphQL SDL documents carrying custom deploy
// directives, inventories those directives, and strips them from the
// document before it is handed to API clients.
package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Fragment is an additional named SDL input merged into a parse, such
// as a shared types file alongside the main schema.
type Fragment struct {
	Name  string
	Input string
}

// Document is a parsed schema plus the sources it came from. The
// underlying AST keeps declaration order for types, fields and
// directives; the transform pipeline relies on that order.
type Document struct {
	AST     *ast.SchemaDocument
	Sources []*ast.Source
}

// Definitions returns the document's type definitions in declaration
// order, followed by its type extensions.
func (d *Document) Definitions() []*ast.Definition {
	defs := make([]*ast.Definition, 0, len(d.AST.Definitions)+len(d.AST.Extensions))
	defs = append(defs, d.AST.Definitions...)
	defs = append(defs, d.AST.Extensions...)
	return defs
}

// Hash returns the hex SHA-256 of the document's source text. Sources
// are hashed in parse order together with their names, so the same
// project always hashes the same and any edit changes the hash.
func (d *Document) Hash() string {
	h := sha256.New()
	for _, src := range d.Sources {
		h.Write([]byte(src.Name))
		h.Write([]byte{0})
		h.Write([]byte(src.Input))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Format renders the document back to SDL.
func (d *Document) Format() string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(d.AST)
	return buf.String()
}
