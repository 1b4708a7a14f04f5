package artifact

// Stack is a named group of resources deployed as a unit. The root
// stack holds the API resource; nested stacks group the remaining
// resources by category.
type Stack struct {
	Name      string      `json:"name"`
	Resources []*Resource `json:"resources"`
}

// Resource returns the named resource in this stack, or nil.
func (s *Stack) Resource(name string) *Resource {
	if s == nil {
		return nil
	}
	for _, r := range s.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Add appends a resource to the stack.
func (s *Stack) Add(r *Resource) {
	s.Resources = append(s.Resources, r)
}
