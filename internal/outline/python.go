package outline

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonGrammar classifies tree-sitter-python definitions.
type pythonGrammar struct{}

func (pythonGrammar) declare(n *tree_sitter.Node, parent string, src []byte) (decl, bool) {
	switch n.Kind() {
	case "function_definition":
		return byName(KindFunction, n, src, n.ChildByFieldName("body")), true

	case "class_definition":
		return byName(KindAggregate, n, src, n.ChildByFieldName("body")), true

	case "import_statement":
		name := n.ChildByFieldName("name")
		if name != nil && name.Kind() == "aliased_import" {
			name = name.ChildByFieldName("name")
		}
		return withText(KindImport, name, src), true

	case "import_from_statement":
		return byField(KindImport, n, "module_name", src), true

	case "future_import_statement":
		return decl{kind: KindImport, name: "__future__", named: true}, true

	case "type_alias_statement":
		return byField(KindTypeAlias, n, "left", src), true

	case "expression_statement":
		if !pyBindingScope(n, parent) {
			return decl{}, false
		}
		assign := n.NamedChild(0)
		if assign == nil || assign.Kind() != "assignment" {
			return decl{}, false
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Kind() != "identifier" {
			return decl{}, false
		}
		return withText(KindVariable, left, src), true
	}
	return decl{}, false
}

// pyBindingScope reports whether an assignment statement declares a module or
// class attribute rather than a local.
func pyBindingScope(n *tree_sitter.Node, parent string) bool {
	if parent == "module" {
		return true
	}
	if parent != "block" {
		return false
	}
	block := n.Parent()
	if block == nil {
		return false
	}
	owner := block.Parent()
	return owner != nil && owner.Kind() == "class_definition"
}

func (pythonGrammar) transparent(kind string) bool {
	return kind == "decorated_definition"
}
