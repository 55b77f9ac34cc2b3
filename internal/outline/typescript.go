package outline

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsGrammar classifies tree-sitter-typescript declarations.
type tsGrammar struct{}

func (tsGrammar) declare(n *tree_sitter.Node, parent string, src []byte) (decl, bool) {
	switch n.Kind() {
	case "function_declaration", "generator_function_declaration", "function_signature":
		return byName(KindFunction, n, src), true

	case "method_definition", "method_signature", "abstract_method_signature":
		return byName(KindFunction, n, src), true

	case "class_declaration", "abstract_class_declaration":
		return byName(KindAggregate, n, src, n.ChildByFieldName("body")), true

	case "interface_declaration":
		return byName(KindInterface, n, src, n.ChildByFieldName("body")), true

	case "enum_declaration":
		return byName(KindEnum, n, src, n.ChildByFieldName("body")), true

	case "property_identifier":
		if parent != "enum_body" {
			return decl{}, false
		}
		return withText(KindEnumVariant, n, src), true

	case "enum_assignment":
		d := byName(KindEnumVariant, n, src)
		d.name = trimQuotes(d.name)
		return d, true

	case "string":
		if parent != "enum_body" {
			return decl{}, false
		}
		return decl{kind: KindEnumVariant, name: trimQuotes(n.Utf8Text(src)), named: true}, true

	case "type_alias_declaration":
		return byName(KindTypeAlias, n, src), true

	case "import_statement":
		d := withText(KindImport, n.ChildByFieldName("source"), src)
		d.name = trimQuotes(d.name)
		return d, true

	case "variable_declarator", "public_field_definition", "property_signature":
		return byName(KindVariable, n, src), true

	case "internal_module", "module":
		d := byName(KindModule, n, src, n.ChildByFieldName("body"))
		d.name = trimQuotes(d.name)
		return d, true
	}
	return decl{}, false
}

func (tsGrammar) transparent(kind string) bool {
	switch kind {
	case "export_statement", "lexical_declaration", "variable_declaration",
		"ambient_declaration", "expression_statement":
		return true
	}
	return false
}
