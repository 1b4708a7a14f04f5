package transformers

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

func init() {
	Register("key", func() transform.Transformer { return NewKey() })
}

// Key adds index definitions to @model storage tables.
//
// Without a name argument it replaces the table's primary key schema:
// "@key(fields: [\"owner\", \"createdAt\"])" makes owner the hash key
// and createdAt the range key. With a name argument it declares a
// secondary index instead: "@key(name: \"byOwner\", fields:
// [\"owner\"])" leaves the primary key alone.
//
// The object hook only validates and records intent in type metadata;
// the table definitions are rewritten in After, once Model has
// generated them.
type Key struct{}

// NewKey returns the @key transformer.
func NewKey() *Key { return &Key{} }

func (k *Key) Name() string { return "key" }

func (k *Key) Directives() []string { return []string{"key"} }

func (k *Key) TransformObject(ctx transform.Context, def *ast.Definition, dir *ast.Directive) error {
	fields, ok := argStringList(dir, "fields")
	if !ok || len(fields) == 0 {
		return fmt.Errorf(`@key on %s requires a "fields" argument listing at least one field`, def.Name)
	}
	if len(fields) > 2 {
		return fmt.Errorf("@key on %s names %d fields; at most two (hash and range) are supported", def.Name, len(fields))
	}
	for _, f := range fields {
		if def.Fields.ForName(f) == nil {
			return fmt.Errorf("@key on %s references unknown field %q", def.Name, f)
		}
	}
	name, _ := argString(dir, "name")

	md := ctx.TypeMetadata(def.Name)
	keys, _ := md["keys"].([]map[string]any)
	keys = append(keys, map[string]any{"name": name, "fields": fields})
	ctx.AnnotateType(def.Name, map[string]any{"keys": keys})
	return nil
}

func (k *Key) After(ctx transform.Context) error {
	for _, def := range ctx.Document().Definitions() {
		md := ctx.TypeMetadata(def.Name)
		keys, _ := md["keys"].([]map[string]any)
		if len(keys) == 0 {
			continue
		}
		if isModel, _ := md["model"].(bool); !isModel {
			ctx.Warnf("@key on %s has no effect without @model", def.Name)
			continue
		}
		table, _ := md["table"].(string)
		res := ctx.Resource(table)
		if res == nil {
			continue
		}
		for _, key := range keys {
			name, _ := key["name"].(string)
			fields, _ := key["fields"].([]string)
			schema := keySchemaFor(fields)
			if name == "" {
				res.Definition["keySchema"] = schema
				continue
			}
			indexes, _ := res.Definition["globalSecondaryIndexes"].([]any)
			res.Definition["globalSecondaryIndexes"] = append(indexes, map[string]any{
				"name":      name,
				"keySchema": schema,
			})
		}
	}
	return nil
}

func keySchemaFor(fields []string) []any {
	schema := []any{
		map[string]any{"name": fields[0], "type": "HASH"},
	}
	if len(fields) > 1 {
		schema = append(schema, map[string]any{"name": fields[1], "type": "RANGE"})
	}
	return schema
}
