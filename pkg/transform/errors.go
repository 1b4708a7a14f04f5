package transform

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

// UnknownDirectiveError is returned before any hook runs when the
// schema uses a custom directive no registered transformer handles.
type UnknownDirectiveError struct {
	Directive string
	Available []string
}

func (e *UnknownDirectiveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no transformer handles directive @%s\n", e.Directive)
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, "Known directives: %s\n", strings.Join(e.Available, ", "))
	}
	fmt.Fprintf(&b, "Hint: register a transformer for @%s or remove it from the schema", e.Directive)
	return b.String()
}

// ResourceNameCollisionError is returned when two resources are
// registered under the same logical name with different definitions.
type ResourceNameCollisionError struct {
	Name     string
	Existing artifact.Category
	Added    artifact.Category
}

func (e *ResourceNameCollisionError) Error() string {
	return fmt.Sprintf("resource name %q already registered as a %s resource; cannot re-register as %s with a different definition",
		e.Name, e.Existing, e.Added)
}

// ResolverCollisionError is returned when a second, different resolver
// is bound to a field that already has one.
type ResolverCollisionError struct {
	TypeName   string
	FieldName  string
	DataSource string
}

func (e *ResolverCollisionError) Error() string {
	return fmt.Sprintf("field %s.%s already has a resolver bound to data source %q",
		e.TypeName, e.FieldName, e.DataSource)
}

// TransformerError wraps a fatal error raised by a transformer hook
// with the transformer's name and the schema node it was visiting.
type TransformerError struct {
	Transformer string
	Node        string
	Directive   string
	Err         error
}

func (e *TransformerError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("transformer %s failed on %s (@%s): %v", e.Transformer, e.Node, e.Directive, e.Err)
	}
	return fmt.Sprintf("transformer %s failed: %v", e.Transformer, e.Err)
}

func (e *TransformerError) Unwrap() error { return e.Err }

// RunError is the terminal error of a failed run. It wraps the first
// fatal error and carries every diagnostic recorded before the run
// stopped; no partial artifact escapes a failed run.
type RunError struct {
	Err         error
	Diagnostics []Diagnostic
}

func (e *RunError) Error() string { return e.Err.Error() }

func (e *RunError) Unwrap() error { return e.Err }
