package transform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

// recorder logs every hook invocation into a test-owned slice.
type recorder struct {
	name string
	dirs []string
	log  *[]string
}

func (r *recorder) Name() string         { return r.name }
func (r *recorder) Directives() []string { return r.dirs }

func (r *recorder) record(parts ...string) {
	*r.log = append(*r.log, r.name+":"+strings.Join(parts, ":"))
}

func (r *recorder) TransformObject(_ Context, def *ast.Definition, dir *ast.Directive) error {
	r.record("obj", def.Name, dir.Name)
	return nil
}

func (r *recorder) TransformField(_ Context, parent *ast.Definition, f *ast.FieldDefinition, dir *ast.Directive) error {
	r.record("field", parent.Name+"."+f.Name, dir.Name)
	return nil
}

func (r *recorder) TransformEnum(_ Context, def *ast.Definition, dir *ast.Directive) error {
	r.record("enum", def.Name, dir.Name)
	return nil
}

// lifecycleRecorder additionally records Before and After hooks.
type lifecycleRecorder struct {
	recorder
}

func (l *lifecycleRecorder) Before(Context) error {
	l.record("before")
	return nil
}

func (l *lifecycleRecorder) After(Context) error {
	l.record("after")
	return nil
}

// failer fails its object hook with a fixed error.
type failer struct {
	name string
	dirs []string
	err  error
}

func (f *failer) Name() string         { return f.name }
func (f *failer) Directives() []string { return f.dirs }

func (f *failer) TransformObject(Context, *ast.Definition, *ast.Directive) error {
	return f.err
}

// builder runs an arbitrary function against the context for each
// object directive.
type builder struct {
	name string
	dirs []string
	fn   func(ctx Context, def *ast.Definition) error
}

func (b *builder) Name() string         { return b.name }
func (b *builder) Directives() []string { return b.dirs }

func (b *builder) TransformObject(ctx Context, def *ast.Definition, _ *ast.Directive) error {
	return b.fn(ctx, def)
}

func TestNewPipelineValidation(t *testing.T) {
	if _, err := NewPipeline(Options{}); err == nil {
		t.Error("empty pipeline should be rejected")
	}

	var log []string
	a := &recorder{name: "dup", dirs: []string{"one"}, log: &log}
	b := &recorder{name: "dup", dirs: []string{"two"}, log: &log}
	if _, err := NewPipeline(Options{}, a, b); err == nil {
		t.Error("duplicate transformer names should be rejected")
	}
}

func TestPipelineDirectives(t *testing.T) {
	var log []string
	p, err := NewPipeline(Options{},
		&recorder{name: "b", dirs: []string{"beta", "alpha"}, log: &log},
		&recorder{name: "g", dirs: []string{"gamma"}, log: &log},
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if got := p.Directives(); !reflect.DeepEqual(got, want) {
		t.Errorf("Directives() = %v, want %v", got, want)
	}
}

func TestUnknownDirective(t *testing.T) {
	var log []string
	p, err := NewPipeline(Options{}, &recorder{name: "model", dirs: []string{"model"}, log: &log})
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Transform("type X @mystery { id: ID }")
	if err == nil {
		t.Fatal("expected UnknownDirectiveError")
	}
	var ude *UnknownDirectiveError
	if !errors.As(err, &ude) {
		t.Fatalf("error type = %T", err)
	}
	if ude.Directive != "mystery" {
		t.Errorf("directive = %q", ude.Directive)
	}
	if len(ude.Available) != 1 || ude.Available[0] != "model" {
		t.Errorf("available = %v", ude.Available)
	}
	if len(log) != 0 {
		t.Errorf("hooks ran before the unknown directive check: %v", log)
	}
}

func TestWalkOrder(t *testing.T) {
	var log []string
	t1 := &recorder{name: "t1", dirs: []string{"one"}, log: &log}
	t2 := &recorder{name: "t2", dirs: []string{"two"}, log: &log}
	both := &recorder{name: "both", dirs: []string{"one", "two"}, log: &log}

	p, err := NewPipeline(Options{}, t1, t2, both)
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Transform(`
type A @one @two {
  f1: ID @one
  f2: ID @two
}

type B @one {
  g: ID
}
`)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	want := []string{
		"t1:obj:A:one",
		"both:obj:A:one",
		"t2:obj:A:two",
		"both:obj:A:two",
		"t1:field:A.f1:one",
		"both:field:A.f1:one",
		"t2:field:A.f2:two",
		"both:field:A.f2:two",
		"t1:obj:B:one",
		"both:obj:B:one",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("walk order:\n got %v\nwant %v", log, want)
	}
}

func TestBeforeAfterOrder(t *testing.T) {
	var log []string
	a := &lifecycleRecorder{recorder{name: "a", dirs: []string{"one"}, log: &log}}
	b := &lifecycleRecorder{recorder{name: "b", dirs: []string{"two"}, log: &log}}

	p, err := NewPipeline(Options{}, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Transform("type X @one { id: ID }"); err != nil {
		t.Fatal(err)
	}

	want := []string{"a:before", "b:before", "a:obj:X:one", "a:after", "b:after"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("hook order:\n got %v\nwant %v", log, want)
	}
}

func TestFatalFinishesNodeThenHalts(t *testing.T) {
	var log []string
	boom := &failer{name: "boom", dirs: []string{"boom"}, err: fmt.Errorf("exploded")}
	note := &lifecycleRecorder{recorder{name: "note", dirs: []string{"note"}, log: &log}}

	p, err := NewPipeline(Options{}, boom, note)
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Transform(`
type A @boom @note {
  f: ID @note
}

type B @note {
  g: ID
}
`)
	if err == nil {
		t.Fatal("expected run to fail")
	}

	var te *TransformerError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want TransformerError in chain", err)
	}
	if te.Transformer != "boom" || te.Node != "A" {
		t.Errorf("TransformerError = %+v", te)
	}

	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *RunError", err)
	}
	if len(re.Diagnostics) == 0 {
		t.Error("RunError carries no diagnostics")
	}

	// The failing node's remaining hooks still run; nothing after the
	// node does. Before hooks ran, After hooks are skipped.
	want := []string{"note:before", "note:obj:A:note"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("calls after fatal:\n got %v\nwant %v", log, want)
	}
}

func TestResourceCollision(t *testing.T) {
	add := func(ctx Context, def *ast.Definition) error {
		return ctx.AddResource(&artifact.Resource{
			Name:       "Shared",
			Category:   artifact.CategoryStorage,
			Definition: map[string]any{"source": def.Name},
		})
	}
	b := &builder{name: "b", dirs: []string{"dup"}, fn: add}

	p, err := NewPipeline(Options{}, b)
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Transform(`
type A @dup { id: ID }
type B @dup { id: ID }
`)
	if err == nil {
		t.Fatal("expected collision error")
	}
	var rce *ResourceNameCollisionError
	if !errors.As(err, &rce) {
		t.Fatalf("error type = %T", err)
	}
	if rce.Name != "Shared" {
		t.Errorf("collision name = %q", rce.Name)
	}
}

func TestIdenticalResourceReAddIsNoop(t *testing.T) {
	add := func(ctx Context, _ *ast.Definition) error {
		return ctx.AddResource(&artifact.Resource{
			Name:       "Shared",
			Category:   artifact.CategoryStorage,
			Definition: map[string]any{"fixed": true},
		})
	}
	b := &builder{name: "b", dirs: []string{"dup"}, fn: add}

	p, err := NewPipeline(Options{}, b)
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.Transform(`
type A @dup { id: ID }
type B @dup { id: ID }
`)
	if err != nil {
		t.Fatalf("identical re-add must not fail: %v", err)
	}
	if got := len(res.Artifact.Stack("storage").Resources); got != 1 {
		t.Errorf("storage resources = %d, want 1", got)
	}
}

func TestResolverCollision(t *testing.T) {
	bind := func(ctx Context, def *ast.Definition) error {
		return ctx.AddResolver(&artifact.Resolver{
			TypeName:   "Query",
			FieldName:  "item",
			Kind:       artifact.ResolverKindUnit,
			DataSource: def.Name + "Table",
			Operation:  "get",
		})
	}
	b := &builder{name: "b", dirs: []string{"bind"}, fn: bind}

	p, err := NewPipeline(Options{}, b)
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Transform(`
type A @bind { id: ID }
type B @bind { id: ID }
`)
	if err == nil {
		t.Fatal("expected resolver collision")
	}
	var rce *ResolverCollisionError
	if !errors.As(err, &rce) {
		t.Fatalf("error type = %T", err)
	}
	if rce.TypeName != "Query" || rce.FieldName != "item" {
		t.Errorf("collision = %+v", rce)
	}
}

func TestEnumValueDirectivesNeedNoHook(t *testing.T) {
	var log []string
	r := &recorder{name: "tag", dirs: []string{"tag"}, log: &log}

	p, err := NewPipeline(Options{}, r)
	if err != nil {
		t.Fatal(err)
	}

	// Directives on enum values are collected and must be bound, but
	// no hook fires for them.
	if _, err := p.Transform("enum E { A @tag B }"); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("unexpected hook calls: %v", log)
	}
}

func TestWarningsSurfaceInResult(t *testing.T) {
	warn := &builder{name: "warner", dirs: []string{"w"}, fn: func(ctx Context, def *ast.Definition) error {
		ctx.Warnf("heads up about %s", def.Name)
		return nil
	}}

	p, err := NewPipeline(Options{}, warn)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Transform("type A @w { id: ID }")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Severity != SeverityWarning || w.Transformer != "warner" {
		t.Errorf("warning = %+v", w)
	}
	if !strings.Contains(w.Message, "heads up about A") {
		t.Errorf("message = %q", w.Message)
	}
}

func TestAssembleArtifactShape(t *testing.T) {
	b := &builder{name: "store", dirs: []string{"store"}, fn: func(ctx Context, def *ast.Definition) error {
		table := def.Name + "Table"
		if err := ctx.AddResource(&artifact.Resource{
			Name:       table,
			Category:   artifact.CategoryStorage,
			Definition: map[string]any{"keySchema": []any{map[string]any{"name": "id", "type": "HASH"}}},
		}); err != nil {
			return err
		}
		ctx.AddOutput(artifact.Output{Name: table + "Name", Value: "${" + table + ".name}"})
		return ctx.AddResolver(&artifact.Resolver{
			TypeName:   "Query",
			FieldName:  "get" + def.Name,
			Kind:       artifact.ResolverKindUnit,
			DataSource: table,
			Operation:  "get",
		})
	}}

	p, err := NewPipeline(Options{Project: "todo"}, b)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Transform("type Todo @store { id: ID! }")
	if err != nil {
		t.Fatal(err)
	}
	art := res.Artifact

	if art.Project != "todo" || art.Environment != "dev" {
		t.Errorf("project/environment = %s/%s", art.Project, art.Environment)
	}
	if art.Root == nil || len(art.Root.Resources) != 1 || art.Root.Resources[0].Name != "GraphQLAPI" {
		t.Fatalf("root stack = %+v", art.Root)
	}
	if len(art.Stacks) != 2 || art.Stacks[0].Name != "resolvers" || art.Stacks[1].Name != "storage" {
		names := make([]string, 0, len(art.Stacks))
		for _, s := range art.Stacks {
			names = append(names, s.Name)
		}
		t.Fatalf("nested stacks = %v, want [resolvers storage]", names)
	}

	rr := art.Resource("QueryGetTodoResolver")
	if rr == nil {
		t.Fatal("resolver resource missing")
	}
	if !reflect.DeepEqual(rr.DependsOn, []string{"GraphQLAPI", "TodoTable"}) {
		t.Errorf("resolver dependsOn = %v", rr.DependsOn)
	}

	if len(art.Parameters) == 0 || art.Parameters[0].Name != "env" || art.Parameters[0].Default != "dev" {
		t.Errorf("parameters = %+v", art.Parameters)
	}

	outNames := make(map[string]bool)
	for _, o := range art.Outputs {
		outNames[o.Name] = true
	}
	for _, want := range []string{"GraphQLAPIId", "GraphQLAPIEndpoint", "TodoTableName"} {
		if !outNames[want] {
			t.Errorf("output %s missing", want)
		}
	}

	if strings.Contains(art.Schema, "@store") {
		t.Error("artifact schema still contains custom directives")
	}
	if len(art.SchemaHash) != 64 {
		t.Errorf("schema hash = %q", art.SchemaHash)
	}
}

func TestRunsAreDeterministic(t *testing.T) {
	b := &builder{name: "store", dirs: []string{"store"}, fn: func(ctx Context, def *ast.Definition) error {
		return ctx.AddResource(&artifact.Resource{
			Name:       def.Name + "Table",
			Category:   artifact.CategoryStorage,
			Definition: map[string]any{"attributes": []any{"id"}},
		})
	}}

	p, err := NewPipeline(Options{Project: "todo"}, b)
	if err != nil {
		t.Fatal(err)
	}

	input := `
type Todo @store { id: ID! }
type Comment @store { id: ID! }
`
	first, err := p.Transform(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Transform(input)
	if err != nil {
		t.Fatal(err)
	}

	fa, err := first.Artifact.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	fb, err := second.Artifact.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Error("two runs over the same input produced different artifacts")
	}
}

func TestTransformReportsParseErrors(t *testing.T) {
	var log []string
	p, err := NewPipeline(Options{}, &recorder{name: "r", dirs: []string{"r"}, log: &log})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Transform("type X {{"); err == nil {
		t.Error("expected parse error to propagate")
	}
}
