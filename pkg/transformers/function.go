package transformers

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

func init() {
	Register("function", func() transform.Transformer { return NewFunction() })
}

// Function binds a field to a named function.
//
// "sendEmail(to: String!): Boolean @function(name: \"send-email\")"
// generates a SendEmailFunction resource and an Invoke resolver for
// the field. Several fields naming the same function share one
// resource.
type Function struct{}

// NewFunction returns the @function transformer.
func NewFunction() *Function { return &Function{} }

func (f *Function) Name() string { return "function" }

func (f *Function) Directives() []string { return []string{"function"} }

func (f *Function) TransformField(ctx transform.Context, parent *ast.Definition, field *ast.FieldDefinition, dir *ast.Directive) error {
	name, ok := argString(dir, "name")
	if !ok || name == "" {
		return fmt.Errorf(`@function on %s.%s requires a "name" argument`, parent.Name, field.Name)
	}

	resource := sanitizeTitle(name) + "Function"
	if resource == "Function" {
		return fmt.Errorf("@function on %s.%s has a name %q with no usable characters", parent.Name, field.Name, name)
	}
	err := ctx.AddResource(&artifact.Resource{
		Name:     resource,
		Category: artifact.CategoryFunction,
		Definition: map[string]any{
			"functionName": name,
			"handler":      "index.handler",
		},
	})
	if err != nil {
		return err
	}

	return ctx.AddResolver(&artifact.Resolver{
		TypeName:   parent.Name,
		FieldName:  field.Name,
		Kind:       artifact.ResolverKindUnit,
		DataSource: resource,
		Operation:  "Invoke",
		RequestTemplate: fmt.Sprintf(
			`{"operation": "Invoke", "payload": {"field": "%s", "arguments": "$ctx.args"}}`, field.Name),
		ResponseTemplate: "$ctx.result",
	})
}
