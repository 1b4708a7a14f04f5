// Package artifact defines the deployment artifact produced from an
// annotated schema: resource stacks, resolver bindings, outputs and
// parameters, plus the planning logic that diffs two artifacts into a
// migration plan.
package artifact

// Category classifies a resource by the kind of infrastructure it
// describes. Categories group resources into nested stacks and drive
// the destructive-change rules during planning.
type Category string

const (
	CategoryAPI      Category = "api"
	CategoryStorage  Category = "storage"
	CategoryFunction Category = "function"
	CategoryHTTP     Category = "http"
	CategoryAuth     Category = "auth"
	CategoryResolver Category = "resolver"
)

// Stateful reports whether resources of this category hold data that a
// redeploy cannot recreate. Deleting a stateful resource is always a
// destructive change.
func (c Category) Stateful() bool {
	return c == CategoryStorage
}

// Parameter is a deploy-time input declared by the artifact.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Output is a named value exported by a deployment, such as the API
// endpoint or a table name. Values may reference resource attributes
// with ${ResourceName.attribute} expressions that the provisioner
// resolves at deploy time.
type Output struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Artifact is the compiled deployment description for one project
// schema. It is immutable once produced: planning and provisioning
// read it but never modify it.
type Artifact struct {
	Project     string      `json:"project"`
	Environment string      `json:"environment"`
	SchemaHash  string      `json:"schemaHash"`
	Schema      string      `json:"schema"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Outputs     []Output    `json:"outputs,omitempty"`
	Root        *Stack      `json:"root"`
	Stacks      []*Stack    `json:"stacks,omitempty"`
}

// Resources returns every resource in the artifact: the root stack
// first, then each nested stack in order.
func (a *Artifact) Resources() []*Resource {
	if a == nil {
		return nil
	}
	var out []*Resource
	if a.Root != nil {
		out = append(out, a.Root.Resources...)
	}
	for _, st := range a.Stacks {
		out = append(out, st.Resources...)
	}
	return out
}

// Resource returns the named resource from any stack, or nil.
func (a *Artifact) Resource(name string) *Resource {
	if a == nil {
		return nil
	}
	if a.Root != nil {
		if r := a.Root.Resource(name); r != nil {
			return r
		}
	}
	for _, st := range a.Stacks {
		if r := st.Resource(name); r != nil {
			return r
		}
	}
	return nil
}

// Stack returns the named stack, including the root stack, or nil.
func (a *Artifact) Stack(name string) *Stack {
	if a == nil {
		return nil
	}
	if a.Root != nil && a.Root.Name == name {
		return a.Root
	}
	for _, st := range a.Stacks {
		if st.Name == name {
			return st
		}
	}
	return nil
}
