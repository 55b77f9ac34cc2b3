package outline

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustGrammar classifies tree-sitter-rust items.
type rustGrammar struct{}

func (rustGrammar) declare(n *tree_sitter.Node, _ string, src []byte) (decl, bool) {
	switch n.Kind() {
	case "function_item", "function_signature_item":
		// Items declared inside a function body nest under the function.
		return byName(KindFunction, n, src, n.ChildByFieldName("body")), true

	case "struct_item", "union_item":
		return byName(KindAggregate, n, src), true

	case "enum_item":
		return byName(KindEnum, n, src, n.ChildByFieldName("body")), true

	case "enum_variant":
		return byName(KindEnumVariant, n, src), true

	case "impl_item":
		return decl{kind: KindImpl, members: []*tree_sitter.Node{n.ChildByFieldName("body")}}, true

	case "trait_item":
		return byName(KindInterface, n, src, n.ChildByFieldName("body")), true

	case "const_item", "static_item":
		return byName(KindVariable, n, src), true

	case "type_item", "associated_type":
		return byName(KindTypeAlias, n, src), true

	case "extern_crate_declaration":
		if n.ChildByFieldName("alias") != nil {
			return byField(KindExternCrate, n, "alias", src), true
		}
		return byName(KindExternCrate, n, src), true

	case "mod_item":
		return byName(KindModule, n, src, n.ChildByFieldName("body")), true

	case "use_declaration":
		d := withText(KindImport, n.ChildByFieldName("argument"), src)
		d.name = oneLine(d.name)
		return d, true
	}
	return decl{}, false
}

// Items may sit anywhere below a function body: in nested blocks, loop and
// match arms, closures or let initializers. Every undeclared node is walked
// through so they are found at the enclosing function's level. Outside
// function bodies only item lists reach here, since the other declared kinds
// have no members.
func (rustGrammar) transparent(string) bool {
	return true
}
