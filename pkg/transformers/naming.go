package transformers

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/leapgraph/pkg/artifact"
)

// Pluralize returns the plural form of a type name, used for list
// field naming (Todo becomes listTodos, Category becomes
// listCategories).
func Pluralize(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return name + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// sanitizeTitle turns an arbitrary identifier (a function name, a host
// name) into a TitleCase resource name fragment: "send-email" becomes
// "SendEmail", "api.example.com" becomes "ApiExampleCom". Case inside
// a segment is preserved, so "sendEmail" stays "SendEmail".
func sanitizeTitle(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(artifact.TitleCase(p))
	}
	return b.String()
}

// lowerCamel lowercases the first rune of an identifier.
func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
