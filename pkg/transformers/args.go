package transformers

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// argValue decodes a directive argument into plain Go values
// (string, int64, float64, bool, []any, map[string]any).
func argValue(dir *ast.Directive, name string) (any, bool) {
	arg := dir.Arguments.ForName(name)
	if arg == nil || arg.Value == nil {
		return nil, false
	}
	v, err := arg.Value.Value(nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

func argString(dir *ast.Directive, name string) (string, bool) {
	v, ok := argValue(dir, name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// argStringList accepts both a list of strings and a single string,
// so @key(fields: "id") and @key(fields: ["id"]) mean the same thing.
func argStringList(dir *ast.Directive, name string) ([]string, bool) {
	v, ok := argValue(dir, name)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func argObjectList(dir *ast.Directive, name string) ([]map[string]any, bool) {
	v, ok := argValue(dir, name)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		if single, ok := v.(map[string]any); ok {
			return []map[string]any{single}, true
		}
		return nil, false
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}
