package artifact

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase upper-cases the first letter of s without lowering the
// rest, so camelCase names keep their interior capitals:
// "getTodo" -> "GetTodo", "todo" -> "Todo".
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	// cases.Caser is stateful, so build one per call.
	return cases.Title(language.English, cases.NoLower).String(s)
}
