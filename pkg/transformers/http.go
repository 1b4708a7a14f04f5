package transformers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

func init() {
	Register("http", func() transform.Transformer { return NewHTTP() })
}

var httpMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// HTTP proxies a field to an external HTTP endpoint.
//
// "users: [User] @http(url: \"https://api.example.com/users\")"
// generates an ApiExampleComDataSource resource for the endpoint host
// and a GET resolver for the path. The method argument selects another
// verb. Fields sharing a host share the data source resource.
type HTTP struct{}

// NewHTTP returns the @http transformer.
func NewHTTP() *HTTP { return &HTTP{} }

func (h *HTTP) Name() string { return "http" }

func (h *HTTP) Directives() []string { return []string{"http"} }

func (h *HTTP) TransformField(ctx transform.Context, parent *ast.Definition, field *ast.FieldDefinition, dir *ast.Directive) error {
	rawURL, ok := argString(dir, "url")
	if !ok || rawURL == "" {
		return fmt.Errorf(`@http on %s.%s requires a "url" argument`, parent.Name, field.Name)
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("@http on %s.%s has an invalid url %q", parent.Name, field.Name, rawURL)
	}

	method := "GET"
	if m, ok := argString(dir, "method"); ok {
		method = strings.ToUpper(m)
		if !httpMethods[method] {
			return fmt.Errorf("@http on %s.%s has an unsupported method %q", parent.Name, field.Name, m)
		}
	}

	host := strings.ToLower(u.Host)
	resource := sanitizeTitle(host) + "DataSource"
	if err := ctx.AddResource(&artifact.Resource{
		Name:     resource,
		Category: artifact.CategoryHTTP,
		Definition: map[string]any{
			"endpoint": u.Scheme + "://" + host,
		},
	}); err != nil {
		return err
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return ctx.AddResolver(&artifact.Resolver{
		TypeName:   parent.Name,
		FieldName:  field.Name,
		Kind:       artifact.ResolverKindUnit,
		DataSource: resource,
		Operation:  method,
		RequestTemplate: fmt.Sprintf(
			`{"method": "%s", "resourcePath": "%s", "params": {"query": "$ctx.args"}}`, method, path),
		ResponseTemplate: "$ctx.result",
	})
}
