package transformers

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

func init() {
	Register("model", func() transform.Transformer { return NewModel() })
}

// Model turns an object type annotated with @model into a storage
// table and a full set of CRUD resolvers.
//
// For "type Todo @model" it generates a TodoTable storage resource
// whose definition carries the key schema and the complete attribute
// list, resolvers for getTodo, listTodos, createTodo, updateTodo and
// deleteTodo, and a TodoTableName output. The hash key is the field
// named "id" when present, otherwise the first declared field.
//
// The resolver templates reference only the hash key, never the other
// attributes, so adding a field to a model changes the table
// definition and nothing else.
type Model struct{}

// NewModel returns the @model transformer.
func NewModel() *Model { return &Model{} }

func (m *Model) Name() string { return "model" }

func (m *Model) Directives() []string { return []string{"model"} }

func (m *Model) TransformObject(ctx transform.Context, def *ast.Definition, dir *ast.Directive) error {
	if len(dir.Arguments) > 0 {
		ctx.Warnf("@model on %s takes no arguments; they were ignored", def.Name)
	}
	if len(def.Fields) == 0 {
		ctx.Warnf("type %s has no fields; no storage generated", def.Name)
		return nil
	}

	table := def.Name + "Table"
	hashKey := hashKeyFor(def)

	attrs := make([]any, 0, len(def.Fields))
	for _, f := range def.Fields {
		attrs = append(attrs, map[string]any{
			"name":     f.Name,
			"type":     storageType(f.Type),
			"required": f.Type.NonNull,
		})
	}

	err := ctx.AddResource(&artifact.Resource{
		Name:     table,
		Category: artifact.CategoryStorage,
		Definition: map[string]any{
			"tableName":   def.Name,
			"billingMode": "PAY_PER_REQUEST",
			"keySchema": []any{
				map[string]any{"name": hashKey, "type": "HASH"},
			},
			"attributes": attrs,
		},
	})
	if err != nil {
		return err
	}

	ctx.AddOutput(artifact.Output{
		Name:        table + "Name",
		Value:       fmt.Sprintf("${%s.name}", table),
		Description: fmt.Sprintf("Storage table for type %s", def.Name),
	})

	ctx.AnnotateType(def.Name, map[string]any{
		"model":   true,
		"table":   table,
		"hashKey": hashKey,
	})

	for _, rv := range crudResolvers(def.Name, table, hashKey) {
		if err := ctx.AddResolver(rv); err != nil {
			return err
		}
	}
	return nil
}

// hashKeyFor picks the table hash key: the id field when the type has
// one, the first declared field otherwise.
func hashKeyFor(def *ast.Definition) string {
	if def.Fields.ForName("id") != nil {
		return "id"
	}
	return def.Fields[0].Name
}

// storageType maps a schema field type onto a storage attribute type.
// Lists and object types are stored serialized.
func storageType(t *ast.Type) string {
	if t == nil || t.Elem != nil {
		return "S"
	}
	switch t.Name() {
	case "Int", "Float":
		return "N"
	case "Boolean":
		return "BOOL"
	default:
		return "S"
	}
}

func crudResolvers(typeName, table, hashKey string) []*artifact.Resolver {
	return []*artifact.Resolver{
		{
			TypeName:   "Query",
			FieldName:  "get" + typeName,
			Kind:       artifact.ResolverKindUnit,
			DataSource: table,
			Operation:  "GetItem",
			RequestTemplate: fmt.Sprintf(
				`{"operation": "GetItem", "key": {"%s": "$ctx.args.%s"}}`, hashKey, hashKey),
			ResponseTemplate: "$ctx.result",
		},
		{
			TypeName:         "Query",
			FieldName:        "list" + Pluralize(typeName),
			Kind:             artifact.ResolverKindUnit,
			DataSource:       table,
			Operation:        "Scan",
			RequestTemplate:  `{"operation": "Scan"}`,
			ResponseTemplate: "$ctx.result",
		},
		{
			TypeName:         "Mutation",
			FieldName:        "create" + typeName,
			Kind:             artifact.ResolverKindUnit,
			DataSource:       table,
			Operation:        "PutItem",
			RequestTemplate:  `{"operation": "PutItem", "attributeValues": "$ctx.args.input"}`,
			ResponseTemplate: "$ctx.result",
		},
		{
			TypeName:   "Mutation",
			FieldName:  "update" + typeName,
			Kind:       artifact.ResolverKindUnit,
			DataSource: table,
			Operation:  "UpdateItem",
			RequestTemplate: fmt.Sprintf(
				`{"operation": "UpdateItem", "key": {"%s": "$ctx.args.input.%s"}, "attributeValues": "$ctx.args.input"}`, hashKey, hashKey),
			ResponseTemplate: "$ctx.result",
		},
		{
			TypeName:   "Mutation",
			FieldName:  "delete" + typeName,
			Kind:       artifact.ResolverKindUnit,
			DataSource: table,
			Operation:  "DeleteItem",
			RequestTemplate: fmt.Sprintf(
				`{"operation": "DeleteItem", "key": {"%s": "$ctx.args.input.%s"}}`, hashKey, hashKey),
			ResponseTemplate: "$ctx.result",
		},
	}
}
