package transformers

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

func init() {
	Register("auth", func() transform.Transformer { return NewAuth() })
}

var (
	allowModes = map[string]bool{
		"public":  true,
		"private": true,
		"owner":   true,
		"groups":  true,
	}
	authOperations = map[string]bool{
		"create": true,
		"read":   true,
		"update": true,
		"delete": true,
	}
)

// Auth attaches access rules to the resolvers of a @model type.
//
// "@auth(rules: [{allow: \"private\"}, {allow: \"public\", operations:
// [\"read\"]}])" decorates every resolver backed by the type's table
// with the rule list. When the run options carry identity roles, an
// AuthRolePolicy resource is generated binding those roles to the
// protected types; without identity roles the rules still reach the
// resolvers but a warning notes that no role policy was emitted.
type Auth struct{}

// NewAuth returns the @auth transformer.
func NewAuth() *Auth { return &Auth{} }

func (a *Auth) Name() string { return "auth" }

func (a *Auth) Directives() []string { return []string{"auth"} }

func (a *Auth) TransformObject(ctx transform.Context, def *ast.Definition, dir *ast.Directive) error {
	rules, ok := argObjectList(dir, "rules")
	if !ok || len(rules) == 0 {
		return fmt.Errorf(`@auth on %s requires a "rules" argument listing at least one rule`, def.Name)
	}
	for _, rule := range rules {
		allow, _ := rule["allow"].(string)
		if !allowModes[allow] {
			return fmt.Errorf("@auth on %s has an invalid allow mode %q (want public, private, owner or groups)", def.Name, allow)
		}
		if opsRaw, ok := rule["operations"]; ok {
			ops, ok := opsRaw.([]any)
			if !ok {
				return fmt.Errorf("@auth on %s: operations must be a list", def.Name)
			}
			for _, opRaw := range ops {
				op, _ := opRaw.(string)
				if !authOperations[op] {
					return fmt.Errorf("@auth on %s has an invalid operation %q (want create, read, update or delete)", def.Name, op)
				}
			}
		}
	}

	md := ctx.TypeMetadata(def.Name)
	existing, _ := md["authRules"].([]map[string]any)
	ctx.AnnotateType(def.Name, map[string]any{"authRules": append(existing, rules...)})
	return nil
}

func (a *Auth) After(ctx transform.Context) error {
	var protected []string
	for _, def := range ctx.Document().Definitions() {
		md := ctx.TypeMetadata(def.Name)
		rules, _ := md["authRules"].([]map[string]any)
		if len(rules) == 0 {
			continue
		}
		if isModel, _ := md["model"].(bool); !isModel {
			ctx.Warnf("@auth on %s has no effect without @model", def.Name)
			continue
		}
		table, _ := md["table"].(string)
		for _, rv := range ctx.Resolvers() {
			if rv.DataSource == table {
				rv.Auth = append(rv.Auth, rules...)
			}
		}
		protected = append(protected, def.Name)
	}
	if len(protected) == 0 {
		return nil
	}

	id := ctx.Options().Identity
	if id.AuthRoleName == "" && id.UnauthRoleName == "" {
		ctx.Warnf("auth rules declared but no identity roles configured; rules apply at the resolver level only")
		return nil
	}
	return ctx.AddResource(&artifact.Resource{
		Name:     "AuthRolePolicy",
		Category: artifact.CategoryAuth,
		Definition: map[string]any{
			"authRole":       id.AuthRoleName,
			"unauthRole":     id.UnauthRoleName,
			"protectedTypes": toAnySlice(protected),
		},
	})
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
