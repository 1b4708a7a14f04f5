package schema

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// Strip returns a copy of the document with every custom directive
// removed: applications anywhere in the document as well as the custom
// directive definitions themselves. Built-in directives survive. The
// input document is never modified, and stripping an already-stripped
// document yields an identical result.
func Strip(doc *Document) *Document {
	cp := *doc.AST
	cp.Schema = stripSchemaDefs(doc.AST.Schema)
	cp.SchemaExtension = stripSchemaDefs(doc.AST.SchemaExtension)
	cp.Directives = stripDirectiveDefs(doc.AST.Directives)
	cp.Definitions = stripDefinitions(doc.AST.Definitions)
	cp.Extensions = stripDefinitions(doc.AST.Extensions)
	return &Document{AST: &cp, Sources: doc.Sources}
}

func stripSchemaDefs(list ast.SchemaDefinitionList) ast.SchemaDefinitionList {
	if list == nil {
		return nil
	}
	out := make(ast.SchemaDefinitionList, 0, len(list))
	for _, sd := range list {
		c := *sd
		c.Directives = stripDirectiveList(sd.Directives)
		out = append(out, &c)
	}
	return out
}

func stripDirectiveDefs(list ast.DirectiveDefinitionList) ast.DirectiveDefinitionList {
	if list == nil {
		return nil
	}
	var out ast.DirectiveDefinitionList
	for _, dd := range list {
		if Builtin(dd.Name) {
			out = append(out, dd)
		}
	}
	return out
}

func stripDefinitions(list ast.DefinitionList) ast.DefinitionList {
	if list == nil {
		return nil
	}
	out := make(ast.DefinitionList, 0, len(list))
	for _, def := range list {
		c := *def
		c.Directives = stripDirectiveList(def.Directives)
		c.Fields = stripFields(def.Fields)
		c.EnumValues = stripEnumValues(def.EnumValues)
		out = append(out, &c)
	}
	return out
}

func stripFields(list ast.FieldList) ast.FieldList {
	if list == nil {
		return nil
	}
	out := make(ast.FieldList, 0, len(list))
	for _, f := range list {
		c := *f
		c.Directives = stripDirectiveList(f.Directives)
		c.Arguments = stripArguments(f.Arguments)
		out = append(out, &c)
	}
	return out
}

func stripArguments(list ast.ArgumentDefinitionList) ast.ArgumentDefinitionList {
	if list == nil {
		return nil
	}
	out := make(ast.ArgumentDefinitionList, 0, len(list))
	for _, a := range list {
		c := *a
		c.Directives = stripDirectiveList(a.Directives)
		out = append(out, &c)
	}
	return out
}

func stripEnumValues(list ast.EnumValueList) ast.EnumValueList {
	if list == nil {
		return nil
	}
	out := make(ast.EnumValueList, 0, len(list))
	for _, ev := range list {
		c := *ev
		c.Directives = stripDirectiveList(ev.Directives)
		out = append(out, &c)
	}
	return out
}

func stripDirectiveList(list ast.DirectiveList) ast.DirectiveList {
	var out ast.DirectiveList
	for _, d := range list {
		if Builtin(d.Name) {
			out = append(out, d)
		}
	}
	return out
}
