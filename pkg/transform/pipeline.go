package transform

import (
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/schema"
)

// apiResourceName is the logical name of the API resource every
// artifact carries in its root stack.
const apiResourceName = "GraphQLAPI"

const defaultAuthMode = "API_KEY"

// Pipeline executes an ordered set of transformers against parsed
// schemas. A pipeline is immutable after construction and safe to
// reuse: every Transform call builds its own Context, so two runs over
// the same input produce identical artifacts.
type Pipeline struct {
	opts         Options
	transformers []Transformer
	byDirective  map[string][]Transformer
}

// NewPipeline builds a pipeline from transformers in registration
// order. Registration order is the tie-breaker whenever several
// transformers handle the same directive. Duplicate transformer names
// are rejected.
func NewPipeline(opts Options, transformers ...Transformer) (*Pipeline, error) {
	if len(transformers) == 0 {
		return nil, fmt.Errorf("pipeline needs at least one transformer")
	}
	if opts.Environment == "" {
		opts.Environment = "dev"
	}

	p := &Pipeline{opts: opts, byDirective: make(map[string][]Transformer)}
	seen := make(map[string]bool)
	for _, t := range transformers {
		if t == nil {
			return nil, fmt.Errorf("nil transformer")
		}
		if seen[t.Name()] {
			return nil, fmt.Errorf("duplicate transformer name %q", t.Name())
		}
		seen[t.Name()] = true
		p.transformers = append(p.transformers, t)
		for _, d := range t.Directives() {
			p.byDirective[d] = append(p.byDirective[d], t)
		}
	}
	return p, nil
}

// Directives returns the sorted set of directive names the pipeline
// handles.
func (p *Pipeline) Directives() []string {
	names := make([]string, 0, len(p.byDirective))
	for name := range p.byDirective {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Result is a successful run: the compiled artifact plus any warnings
// recorded along the way.
type Result struct {
	Artifact *artifact.Artifact
	Warnings []Diagnostic
}

// Transform parses the input and fragments, then runs the pipeline.
func (p *Pipeline) Transform(input string, fragments ...schema.Fragment) (*Result, error) {
	doc, err := schema.Parse(input, fragments...)
	if err != nil {
		return nil, err
	}
	return p.TransformDocument(doc)
}

// TransformDocument runs the pipeline over an already-parsed document.
//
// The walk is deterministic: definitions in declaration order, each
// definition's directives in declaration order, then its fields and
// their directives, again in declaration order. For one directive use,
// every bound transformer runs in registration order. A fatal error
// lets the current node's remaining hooks finish, then stops the walk;
// After hooks are skipped and no partial artifact escapes.
func (p *Pipeline) TransformDocument(doc *schema.Document) (*Result, error) {
	for _, name := range schema.CollectDirectives(doc) {
		if _, ok := p.byDirective[name]; !ok {
			return nil, &UnknownDirectiveError{Directive: name, Available: p.Directives()}
		}
	}

	ctx := newBuildContext(doc, p.opts)

	p.runBefore(ctx)
	if !ctx.halted() {
		p.walk(ctx)
	}
	if !ctx.halted() {
		p.runAfter(ctx)
	}

	if ctx.fatal != nil {
		return nil, &RunError{Err: ctx.fatal, Diagnostics: ctx.diags}
	}

	art, err := p.assemble(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Artifact: art, Warnings: ctx.warnings()}, nil
}

func (p *Pipeline) runBefore(ctx *buildContext) {
	for _, t := range p.transformers {
		b, ok := t.(BeforeTransformer)
		if !ok {
			continue
		}
		p.invoke(ctx, t, "", "", func() error { return b.Before(ctx) })
		if ctx.halted() {
			return
		}
	}
}

func (p *Pipeline) runAfter(ctx *buildContext) {
	for _, t := range p.transformers {
		a, ok := t.(AfterTransformer)
		if !ok {
			continue
		}
		p.invoke(ctx, t, "", "", func() error { return a.After(ctx) })
		if ctx.halted() {
			return
		}
	}
}

func (p *Pipeline) walk(ctx *buildContext) {
	for _, def := range ctx.doc.Definitions() {
		p.visitDefinition(ctx, def)
		if ctx.halted() {
			return
		}
		switch def.Kind {
		case ast.Object, ast.Interface, ast.InputObject:
			for _, field := range def.Fields {
				p.visitField(ctx, def, field)
				if ctx.halted() {
					return
				}
			}
		}
	}
}

// visitDefinition dispatches every directive on one type definition.
// The definition is a single node: hooks already queued for it run to
// completion even after one of them fails.
func (p *Pipeline) visitDefinition(ctx *buildContext, def *ast.Definition) {
	for _, dir := range def.Directives {
		for _, t := range p.byDirective[dir.Name] {
			p.invokeTypeHook(ctx, t, def, dir)
		}
	}
}

func (p *Pipeline) invokeTypeHook(ctx *buildContext, t Transformer, def *ast.Definition, dir *ast.Directive) {
	switch def.Kind {
	case ast.Object:
		if h, ok := t.(ObjectTransformer); ok {
			p.invoke(ctx, t, def.Name, dir.Name, func() error { return h.TransformObject(ctx, def, dir) })
		}
	case ast.Interface:
		if h, ok := t.(InterfaceTransformer); ok {
			p.invoke(ctx, t, def.Name, dir.Name, func() error { return h.TransformInterface(ctx, def, dir) })
		}
	case ast.Union:
		if h, ok := t.(UnionTransformer); ok {
			p.invoke(ctx, t, def.Name, dir.Name, func() error { return h.TransformUnion(ctx, def, dir) })
		}
	case ast.Enum:
		if h, ok := t.(EnumTransformer); ok {
			p.invoke(ctx, t, def.Name, dir.Name, func() error { return h.TransformEnum(ctx, def, dir) })
		}
	case ast.InputObject:
		if h, ok := t.(InputTransformer); ok {
			p.invoke(ctx, t, def.Name, dir.Name, func() error { return h.TransformInput(ctx, def, dir) })
		}
	case ast.Scalar:
		if h, ok := t.(ScalarTransformer); ok {
			p.invoke(ctx, t, def.Name, dir.Name, func() error { return h.TransformScalar(ctx, def, dir) })
		}
	}
}

// visitField dispatches every directive on one field. Each field is
// its own node for halt purposes.
func (p *Pipeline) visitField(ctx *buildContext, parent *ast.Definition, field *ast.FieldDefinition) {
	for _, dir := range field.Directives {
		for _, t := range p.byDirective[dir.Name] {
			if h, ok := t.(FieldTransformer); ok {
				node := parent.Name + "." + field.Name
				p.invoke(ctx, t, node, dir.Name, func() error { return h.TransformField(ctx, parent, field, dir) })
			}
		}
	}
}

func (p *Pipeline) invoke(ctx *buildContext, t Transformer, node, directive string, fn func() error) {
	ctx.current = t.Name()
	defer func() { ctx.current = "" }()
	if err := fn(); err != nil {
		ctx.fail(&TransformerError{Transformer: t.Name(), Node: node, Directive: directive, Err: err})
	}
}

// assemble converts the run's accumulated state into the final
// artifact: resolvers become resolver resources, resources are
// partitioned into per-category stacks under a root stack holding the
// API, and the standard parameters and outputs are attached.
func (p *Pipeline) assemble(ctx *buildContext) (*artifact.Artifact, error) {
	stripped := schema.Strip(ctx.doc)

	apiDef := map[string]any{
		"name":               fmt.Sprintf("%s-%s", p.opts.Project, p.opts.Environment),
		"authenticationType": defaultAuthMode,
	}
	if id := p.opts.Identity; id.AuthRoleName != "" || id.UnauthRoleName != "" {
		apiDef["identity"] = map[string]any{
			"authRole":   id.AuthRoleName,
			"unauthRole": id.UnauthRoleName,
		}
	}
	api := &artifact.Resource{
		Name:       apiResourceName,
		Category:   artifact.CategoryAPI,
		Definition: apiDef,
	}

	root := &artifact.Stack{Name: p.opts.Project}
	root.Add(api)

	names := map[string]artifact.Category{apiResourceName: artifact.CategoryAPI}
	nested := make(map[string]*artifact.Stack)
	place := func(r *artifact.Resource) error {
		if existing, ok := names[r.Name]; ok {
			return &ResourceNameCollisionError{Name: r.Name, Existing: existing, Added: r.Category}
		}
		names[r.Name] = r.Category
		stackName := stackNameFor(r.Category)
		st, ok := nested[stackName]
		if !ok {
			st = &artifact.Stack{Name: stackName}
			nested[stackName] = st
		}
		st.Add(r)
		return nil
	}

	for _, r := range ctx.resources {
		if err := place(r); err != nil {
			return nil, err
		}
	}
	for _, rv := range ctx.resolvers {
		if err := place(rv.Resource(apiResourceName)); err != nil {
			return nil, err
		}
	}

	stackNames := make([]string, 0, len(nested))
	for name := range nested {
		stackNames = append(stackNames, name)
	}
	sort.Strings(stackNames)
	stacks := make([]*artifact.Stack, 0, len(stackNames))
	for _, name := range stackNames {
		stacks = append(stacks, nested[name])
	}

	params := []artifact.Parameter{{
		Name:        "env",
		Type:        "String",
		Default:     p.opts.Environment,
		Description: "Deployment environment name",
	}}
	for _, prm := range ctx.params {
		if prm.Name == "env" {
			params[0] = prm
			continue
		}
		params = append(params, prm)
	}

	outputs := []artifact.Output{
		{Name: "GraphQLAPIId", Value: ref(apiResourceName, "id"), Description: "Logical id of the API"},
		{Name: "GraphQLAPIEndpoint", Value: ref(apiResourceName, "endpoint"), Description: "Query endpoint of the API"},
	}
	for _, o := range ctx.outputs {
		replaced := false
		for i := range outputs {
			if outputs[i].Name == o.Name {
				outputs[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			outputs = append(outputs, o)
		}
	}

	return &artifact.Artifact{
		Project:     p.opts.Project,
		Environment: p.opts.Environment,
		SchemaHash:  ctx.doc.Hash(),
		Schema:      stripped.Format(),
		Parameters:  params,
		Outputs:     outputs,
		Root:        root,
		Stacks:      stacks,
	}, nil
}

// ref builds a ${Resource.attribute} expression for outputs.
func ref(resource, attribute string) string {
	return fmt.Sprintf("${%s.%s}", resource, attribute)
}

func stackNameFor(c artifact.Category) string {
	switch c {
	case artifact.CategoryStorage:
		return "storage"
	case artifact.CategoryFunction:
		return "functions"
	case artifact.CategoryHTTP:
		return "http"
	case artifact.CategoryAuth:
		return "auth"
	case artifact.CategoryResolver:
		return "resolvers"
	default:
		return string(c)
	}
}
