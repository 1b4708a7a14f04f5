package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/schema"
)

// Context is the shared build state for one pipeline run. The pipeline
// creates it, passes it to every hook, and discards it when the run
// ends; transformers communicate only through it and must not retain
// it between runs.
//
// A Context is not safe for concurrent use: a run walks the schema on
// a single goroutine.
type Context interface {
	// Document returns the schema being transformed.
	Document() *schema.Document
	// Options returns the run options.
	Options() Options

	// AddResource registers a resource under its unique logical name.
	// Re-adding an identical resource is a no-op, so hooks stay safe
	// to call twice; a different definition under an existing name
	// fails with ResourceNameCollisionError.
	AddResource(r *artifact.Resource) error
	// Resource returns a previously added resource, or nil.
	Resource(name string) *artifact.Resource
	// Resources returns all resources in the order they were added.
	Resources() []*artifact.Resource

	// AddResolver binds a resolver to its Type.field coordinate. A
	// second, different binding for the same coordinate fails with
	// ResolverCollisionError.
	AddResolver(r *artifact.Resolver) error
	// Resolver returns the binding for Type.field, or nil.
	Resolver(typeName, fieldName string) *artifact.Resolver
	// Resolvers returns all bindings in the order they were added.
	Resolvers() []*artifact.Resolver

	// AddOutput exports a deployment output. Re-adding a name
	// overwrites the earlier value.
	AddOutput(o artifact.Output)
	// AddParameter declares a deploy-time parameter. Re-adding a name
	// overwrites the earlier value.
	AddParameter(p artifact.Parameter)

	// AnnotateType merges metadata onto a type name. Later values for
	// the same key win; other keys are left alone.
	AnnotateType(typeName string, md map[string]any)
	// TypeMetadata returns the merged metadata for a type, or nil.
	TypeMetadata(typeName string) map[string]any

	// Warnf records a non-fatal diagnostic attributed to the current
	// transformer.
	Warnf(format string, args ...any)
}

type buildContext struct {
	doc  *schema.Document
	opts Options

	resources []*artifact.Resource
	resIndex  map[string]*artifact.Resource

	resolvers     []*artifact.Resolver
	resolverIndex map[string]*artifact.Resolver

	outputs     []artifact.Output
	outputIndex map[string]int
	params      []artifact.Parameter
	paramIndex  map[string]int

	typeMD map[string]map[string]any

	// current is the transformer whose hook is executing, for
	// diagnostic attribution.
	current string
	diags   []Diagnostic
	fatal   error
}

func newBuildContext(doc *schema.Document, opts Options) *buildContext {
	return &buildContext{
		doc:           doc,
		opts:          opts,
		resIndex:      make(map[string]*artifact.Resource),
		resolverIndex: make(map[string]*artifact.Resolver),
		outputIndex:   make(map[string]int),
		paramIndex:    make(map[string]int),
		typeMD:        make(map[string]map[string]any),
	}
}

func (c *buildContext) Document() *schema.Document { return c.doc }

func (c *buildContext) Options() Options { return c.opts }

func (c *buildContext) AddResource(r *artifact.Resource) error {
	if r == nil || r.Name == "" {
		return fmt.Errorf("resource must have a name")
	}
	if existing, ok := c.resIndex[r.Name]; ok {
		if existing.Equal(r) {
			return nil
		}
		return &ResourceNameCollisionError{Name: r.Name, Existing: existing.Category, Added: r.Category}
	}
	c.resIndex[r.Name] = r
	c.resources = append(c.resources, r)
	return nil
}

func (c *buildContext) Resource(name string) *artifact.Resource {
	return c.resIndex[name]
}

func (c *buildContext) Resources() []*artifact.Resource {
	return c.resources
}

func (c *buildContext) AddResolver(r *artifact.Resolver) error {
	if r == nil || r.TypeName == "" || r.FieldName == "" {
		return fmt.Errorf("resolver must name a type and field")
	}
	key := r.FieldRef()
	if existing, ok := c.resolverIndex[key]; ok {
		if resolverEqual(existing, r) {
			return nil
		}
		return &ResolverCollisionError{TypeName: r.TypeName, FieldName: r.FieldName, DataSource: existing.DataSource}
	}
	c.resolverIndex[key] = r
	c.resolvers = append(c.resolvers, r)
	return nil
}

func (c *buildContext) Resolver(typeName, fieldName string) *artifact.Resolver {
	return c.resolverIndex[typeName+"."+fieldName]
}

func (c *buildContext) Resolvers() []*artifact.Resolver {
	return c.resolvers
}

func resolverEqual(a, b *artifact.Resolver) bool {
	da, err := json.Marshal(a)
	if err != nil {
		return false
	}
	db, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}

func (c *buildContext) AddOutput(o artifact.Output) {
	if i, ok := c.outputIndex[o.Name]; ok {
		c.outputs[i] = o
		return
	}
	c.outputIndex[o.Name] = len(c.outputs)
	c.outputs = append(c.outputs, o)
}

func (c *buildContext) AddParameter(p artifact.Parameter) {
	if i, ok := c.paramIndex[p.Name]; ok {
		c.params[i] = p
		return
	}
	c.paramIndex[p.Name] = len(c.params)
	c.params = append(c.params, p)
}

func (c *buildContext) AnnotateType(typeName string, md map[string]any) {
	existing, ok := c.typeMD[typeName]
	if !ok {
		existing = make(map[string]any, len(md))
		c.typeMD[typeName] = existing
	}
	for k, v := range md {
		existing[k] = v
	}
}

func (c *buildContext) TypeMetadata(typeName string) map[string]any {
	return c.typeMD[typeName]
}

func (c *buildContext) Warnf(format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{
		Severity:    SeverityWarning,
		Transformer: c.current,
		Message:     fmt.Sprintf(format, args...),
	})
}

// fail records a fatal diagnostic. The first fatal error wins; later
// ones are kept as diagnostics only.
func (c *buildContext) fail(err error) {
	if c.fatal == nil {
		c.fatal = err
	}
	c.diags = append(c.diags, Diagnostic{
		Severity:    SeverityError,
		Transformer: c.current,
		Message:     err.Error(),
	})
}

func (c *buildContext) halted() bool { return c.fatal != nil }

func (c *buildContext) warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}
