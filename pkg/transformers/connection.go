package transformers

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

func init() {
	Register("connection", func() transform.Transformer { return NewConnection() })
}

// Connection wires relation fields between @model types.
//
// A list field gets a Query resolver against the target table keyed by
// a foreign key on the target ("comments: [Comment] @connection" on
// Todo queries CommentTable by todoId). A single-valued field gets a
// GetItem resolver keyed by a foreign key on the source ("author: User
// @connection" reads $ctx.source.authorId). The foreign key can be
// overridden with the fields argument; by default it is derived from
// the owning type name for list fields and the field name for single
// fields.
//
// The field hook records intent in type metadata; resolvers are built
// in After, when every model table is known.
type Connection struct{}

// NewConnection returns the @connection transformer.
func NewConnection() *Connection { return &Connection{} }

func (c *Connection) Name() string { return "connection" }

func (c *Connection) Directives() []string { return []string{"connection"} }

func (c *Connection) TransformField(ctx transform.Context, parent *ast.Definition, field *ast.FieldDefinition, dir *ast.Directive) error {
	many := field.Type.Elem != nil
	target := field.Type.Name()

	var foreignKey string
	if fields, ok := argStringList(dir, "fields"); ok {
		if len(fields) == 0 {
			return fmt.Errorf(`@connection on %s.%s has an empty "fields" argument`, parent.Name, field.Name)
		}
		if len(fields) > 1 {
			ctx.Warnf("@connection on %s.%s names %d fields; only %q is used", parent.Name, field.Name, len(fields), fields[0])
		}
		foreignKey = fields[0]
	} else if many {
		foreignKey = lowerCamel(parent.Name) + "Id"
	} else {
		foreignKey = field.Name + "Id"
	}

	md := ctx.TypeMetadata(parent.Name)
	conns, _ := md["connections"].([]map[string]any)
	conns = append(conns, map[string]any{
		"field":      field.Name,
		"target":     target,
		"many":       many,
		"foreignKey": foreignKey,
	})
	ctx.AnnotateType(parent.Name, map[string]any{"connections": conns})
	return nil
}

func (c *Connection) After(ctx transform.Context) error {
	for _, def := range ctx.Document().Definitions() {
		md := ctx.TypeMetadata(def.Name)
		conns, _ := md["connections"].([]map[string]any)
		if len(conns) == 0 {
			continue
		}
		if isModel, _ := md["model"].(bool); !isModel {
			ctx.Warnf("@connection on %s has no effect without @model", def.Name)
			continue
		}
		for _, conn := range conns {
			field, _ := conn["field"].(string)
			target, _ := conn["target"].(string)
			many, _ := conn["many"].(bool)
			foreignKey, _ := conn["foreignKey"].(string)

			targetMD := ctx.TypeMetadata(target)
			isModel, _ := targetMD["model"].(bool)
			if !isModel {
				return fmt.Errorf("@connection on %s.%s targets %s, which is not a @model type", def.Name, field, target)
			}
			table, _ := targetMD["table"].(string)

			rv := &artifact.Resolver{
				TypeName:         def.Name,
				FieldName:        field,
				Kind:             artifact.ResolverKindUnit,
				DataSource:       table,
				ResponseTemplate: "$ctx.result",
			}
			if many {
				rv.Operation = "Query"
				rv.RequestTemplate = fmt.Sprintf(
					`{"operation": "Query", "key": {"%s": "$ctx.source.%s"}}`, foreignKey, hashKeyOf(md))
			} else {
				rv.Operation = "GetItem"
				rv.RequestTemplate = fmt.Sprintf(
					`{"operation": "GetItem", "key": {"%s": "$ctx.source.%s"}}`, hashKeyOf(targetMD), foreignKey)
			}
			if err := ctx.AddResolver(rv); err != nil {
				return err
			}
		}
	}
	return nil
}

func hashKeyOf(md map[string]any) string {
	if hk, ok := md["hashKey"].(string); ok && hk != "" {
		return hk
	}
	return "id"
}
