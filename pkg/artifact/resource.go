package artifact

import (
	"bytes"
	"encoding/json"
)

// Resource is a single deployable unit: a table, a function data
// source, a resolver, the API itself. Definition holds the
// category-specific shape and must be JSON-serializable; two resources
// with equal canonical JSON are considered unchanged by the planner.
type Resource struct {
	Name       string         `json:"name"`
	Category   Category       `json:"category"`
	Definition map[string]any `json:"definition,omitempty"`
	DependsOn  []string       `json:"dependsOn,omitempty"`
}

// Equal reports whether two resources have the same canonical JSON
// encoding. encoding/json sorts map keys, so equal definitions encode
// identically regardless of construction order, and values that have
// round-tripped through storage compare equal to freshly built ones.
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, err := json.Marshal(r)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Clone returns a deep copy of the resource. The definition is copied
// through its JSON encoding so mutations of the copy never alias the
// original.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	cp := &Resource{Name: r.Name, Category: r.Category}
	if r.DependsOn != nil {
		cp.DependsOn = append([]string(nil), r.DependsOn...)
	}
	if r.Definition != nil {
		data, err := json.Marshal(r.Definition)
		if err == nil {
			_ = json.Unmarshal(data, &cp.Definition)
		}
	}
	return cp
}
