// Package transform implements the directive-driven pipeline that
// compiles an annotated schema into a deployment artifact.
package transform

import "github.com/vektah/gqlparser/v2/ast"

// Transformer handles one or more custom directives. Implementations
// must be stateless across runs: everything a run accumulates lives in
// the Context passed to the hooks, so the same transformer instance
// can serve many pipelines and runs.
//
// A transformer declares which schema nodes it reacts to by
// implementing the matching hook interfaces below; the pipeline
// invokes only the hooks that fit the node a directive appears on.
type Transformer interface {
	// Name identifies the transformer in diagnostics. Names must be
	// unique within a pipeline.
	Name() string
	// Directives returns the directive names (without the leading @)
	// this transformer handles.
	Directives() []string
}

// BeforeTransformer runs once before the schema walk, in registration
// order.
type BeforeTransformer interface {
	Before(ctx Context) error
}

// AfterTransformer runs once after the walk, in registration order.
// After hooks see every resource and resolver the walk produced and
// may rewire them. They are skipped when the run has already failed.
type AfterTransformer interface {
	After(ctx Context) error
}

// ObjectTransformer handles a directive on an object type definition.
type ObjectTransformer interface {
	TransformObject(ctx Context, def *ast.Definition, dir *ast.Directive) error
}

// InterfaceTransformer handles a directive on an interface definition.
type InterfaceTransformer interface {
	TransformInterface(ctx Context, def *ast.Definition, dir *ast.Directive) error
}

// UnionTransformer handles a directive on a union definition.
type UnionTransformer interface {
	TransformUnion(ctx Context, def *ast.Definition, dir *ast.Directive) error
}

// EnumTransformer handles a directive on an enum definition.
type EnumTransformer interface {
	TransformEnum(ctx Context, def *ast.Definition, dir *ast.Directive) error
}

// InputTransformer handles a directive on an input object definition.
type InputTransformer interface {
	TransformInput(ctx Context, def *ast.Definition, dir *ast.Directive) error
}

// ScalarTransformer handles a directive on a scalar definition.
type ScalarTransformer interface {
	TransformScalar(ctx Context, def *ast.Definition, dir *ast.Directive) error
}

// FieldTransformer handles a directive on a field of an object,
// interface or input definition. parent is the enclosing type.
type FieldTransformer interface {
	TransformField(ctx Context, parent *ast.Definition, field *ast.FieldDefinition, dir *ast.Directive) error
}
