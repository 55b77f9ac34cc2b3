package outline

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goGrammar classifies tree-sitter-go declarations.
type goGrammar struct{}

func (goGrammar) declare(n *tree_sitter.Node, parent string, src []byte) (decl, bool) {
	switch n.Kind() {
	case "package_clause":
		return withText(KindModule, n.NamedChild(0), src), true

	case "import_spec":
		d := withText(KindImport, n.ChildByFieldName("path"), src)
		d.name = trimQuotes(d.name)
		return d, true

	case "function_declaration", "method_declaration":
		return byName(KindFunction, n, src), true

	case "method_elem", "method_spec":
		if parent != "interface_type" {
			return decl{}, false
		}
		return byName(KindFunction, n, src), true

	case "type_spec":
		typ := n.ChildByFieldName("type")
		if typ == nil {
			return byName(KindTypeAlias, n, src), true
		}
		switch typ.Kind() {
		case "struct_type":
			return byName(KindAggregate, n, src), true
		case "interface_type":
			return byName(KindInterface, n, src, typ), true
		}
		return byName(KindTypeAlias, n, src), true

	case "type_alias":
		return byName(KindTypeAlias, n, src), true

	case "var_spec", "const_spec":
		return byNames(KindVariable, n, src), true
	}
	return decl{}, false
}

func (goGrammar) transparent(kind string) bool {
	switch kind {
	case "import_declaration", "import_spec_list",
		"type_declaration",
		"var_declaration", "var_spec_list", "const_declaration":
		return true
	}
	return false
}
