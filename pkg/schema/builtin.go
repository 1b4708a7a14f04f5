package schema

// Directives defined by the GraphQL spec or its common extensions.
// They are part of the language rather than deployment annotations, so
// the collector ignores them and the stripper leaves them in place.
var builtinDirectives = map[string]bool{
	"skip":        true,
	"include":     true,
	"deprecated":  true,
	"specifiedBy": true,
	"oneOf":       true,
	"defer":       true,
	"stream":      true,
}

// Builtin reports whether name is a GraphQL built-in directive.
func Builtin(name string) bool {
	return builtinDirectives[name]
}
