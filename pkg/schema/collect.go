package schema

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// CollectDirectives returns the names of all custom directives used
// anywhere in the document: on schema declarations, type definitions,
// fields, field arguments and enum values. Names are deduplicated and
// sorted; built-in directives are excluded. Directive definitions
// alone do not count as uses.
func CollectDirectives(doc *Document) []string {
	seen := make(map[string]bool)

	for _, sd := range doc.AST.Schema {
		collectFrom(sd.Directives, seen)
	}
	for _, sd := range doc.AST.SchemaExtension {
		collectFrom(sd.Directives, seen)
	}
	for _, def := range doc.Definitions() {
		collectFrom(def.Directives, seen)
		for _, f := range def.Fields {
			collectFrom(f.Directives, seen)
			for _, arg := range f.Arguments {
				collectFrom(arg.Directives, seen)
			}
		}
		for _, ev := range def.EnumValues {
			collectFrom(ev.Directives, seen)
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectFrom(list ast.DirectiveList, seen map[string]bool) {
	for _, d := range list {
		if !Builtin(d.Name) {
			seen[d.Name] = true
		}
	}
}
