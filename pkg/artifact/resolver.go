package artifact

// ResolverKindUnit is the only resolver kind currently emitted: one
// field backed by one data source.
const ResolverKindUnit = "unit"

// Resolver binds a schema field to a data source with request and
// response mapping templates. Resolvers accumulate during a transform
// run and are converted to resolver resources when the artifact is
// assembled.
type Resolver struct {
	TypeName         string           `json:"typeName"`
	FieldName        string           `json:"fieldName"`
	Kind             string           `json:"kind"`
	DataSource       string           `json:"dataSource,omitempty"`
	Operation        string           `json:"operation"`
	RequestTemplate  string           `json:"requestTemplate,omitempty"`
	ResponseTemplate string           `json:"responseTemplate,omitempty"`
	Auth             []map[string]any `json:"auth,omitempty"`
}

// FieldRef returns the Type.field coordinate the resolver is bound to.
func (r *Resolver) FieldRef() string {
	return r.TypeName + "." + r.FieldName
}

// ResourceName returns the deterministic logical name of the
// resolver's resource form, e.g. Query.getTodo -> QueryGetTodoResolver.
func (r *Resolver) ResourceName() string {
	return TitleCase(r.TypeName) + TitleCase(r.FieldName) + "Resolver"
}

// Resource converts the resolver into its deployable resource form.
// The resource depends on the API plus the resolver's data source.
func (r *Resolver) Resource(apiName string) *Resource {
	def := map[string]any{
		"typeName":   r.TypeName,
		"fieldName":  r.FieldName,
		"kind":       r.Kind,
		"operation":  r.Operation,
		"dataSource": r.DataSource,
	}
	if r.RequestTemplate != "" {
		def["requestTemplate"] = r.RequestTemplate
	}
	if r.ResponseTemplate != "" {
		def["responseTemplate"] = r.ResponseTemplate
	}
	if len(r.Auth) > 0 {
		rules := make([]any, 0, len(r.Auth))
		for _, rule := range r.Auth {
			rules = append(rules, rule)
		}
		def["auth"] = rules
	}

	deps := []string{apiName}
	if r.DataSource != "" {
		deps = append(deps, r.DataSource)
	}
	return &Resource{
		Name:       r.ResourceName(),
		Category:   CategoryResolver,
		Definition: def,
		DependsOn:  deps,
	}
}
