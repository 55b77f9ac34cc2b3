// Package outline walks a syntax tree and streams a structural outline of its
// declarations to a protocol.Writer.
package outline

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/parsedescribe/internal/engine"
	"github.com/dusk-indust/parsedescribe/internal/protocol"
	"github.com/dusk-indust/parsedescribe/internal/source"
)

// decl is the classification of one declaration node.
type decl struct {
	kind  Kind
	name  string
	named bool

	// members are nodes whose children hold nested declarations.
	members []*tree_sitter.Node

	// also names further declarations of the same kind made by the same
	// node, as in `var a, b int`. Each gets its own element.
	also []string
}

// grammar classifies the node kinds of one tree-sitter grammar.
type grammar interface {
	// declare classifies n, whose enclosing container has kind parent.
	declare(n *tree_sitter.Node, parent string, src []byte) (decl, bool)

	// transparent reports whether an undeclared node is walked through so
	// its children are classified at the current nesting level.
	transparent(kind string) bool
}

var grammars = map[engine.Language]grammar{
	engine.LangRust:       rustGrammar{},
	engine.LangGo:         goGrammar{},
	engine.LangPython:     pythonGrammar{},
	engine.LangTypeScript: tsGrammar{},
}

// Extract writes one element per declaration of tree to w, in document order,
// nesting children inside their parent. Ranges are resolved with sm, the
// same map used for diagnostics.
func Extract(tree *engine.Tree, sm *source.Map, w *protocol.Writer) error {
	g, ok := grammars[tree.Language]
	if !ok {
		return fmt.Errorf("no outline grammar for %s", tree.Language)
	}
	x := &extractor{w: w, sm: sm, src: tree.Source, g: g}
	return x.children(tree.Root())
}

type extractor struct {
	w   *protocol.Writer
	sm  *source.Map
	src []byte
	g   grammar
}

func (x *extractor) children(n *tree_sitter.Node) error {
	cursor := n.Walk()
	defer cursor.Close()

	if !cursor.GotoFirstChild() {
		return nil
	}
	parent := n.Kind()
	for {
		if err := x.visit(cursor.Node(), parent); err != nil {
			return err
		}
		if !cursor.GotoNextSibling() {
			return nil
		}
	}
}

func (x *extractor) visit(n *tree_sitter.Node, parent string) error {
	if !n.IsNamed() {
		return nil
	}
	if d, ok := x.g.declare(n, parent, x.src); ok {
		return x.emit(n, d)
	}
	if x.g.transparent(n.Kind()) {
		return x.children(n)
	}
	return nil
}

func (x *extractor) emit(n *tree_sitter.Node, d decl) error {
	x.w.Raw("\n" + d.kind.String() + " { ")
	if d.named {
		x.w.String(d.name)
	}
	x.w.Range(x.sm.Resolve(engine.SpanOf(n)))
	if err := x.w.Raw("{"); err != nil {
		return err
	}
	for _, m := range d.members {
		if m == nil {
			continue
		}
		if err := x.children(m); err != nil {
			return err
		}
	}
	if err := x.w.Raw("} }"); err != nil {
		return err
	}
	for _, name := range d.also {
		if err := x.emit(n, decl{kind: d.kind, name: name, named: true}); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers shared by the grammars
// ---------------------------------------------------------------------------

// byField builds a decl named after the text of n's field child.
func byField(kind Kind, n *tree_sitter.Node, field string, src []byte, members ...*tree_sitter.Node) decl {
	d := decl{kind: kind, members: members}
	if f := n.ChildByFieldName(field); f != nil {
		d.name = f.Utf8Text(src)
		d.named = true
	}
	return d
}

// byName is byField for the conventional "name" field.
func byName(kind Kind, n *tree_sitter.Node, src []byte, members ...*tree_sitter.Node) decl {
	return byField(kind, n, "name", src, members...)
}

// byNames is byName for nodes that declare several names at once through
// repeated "name" fields. Separator tokens may carry the field too.
func byNames(kind Kind, n *tree_sitter.Node, src []byte) decl {
	cursor := n.Walk()
	defer cursor.Close()

	d := decl{kind: kind}
	for _, f := range n.ChildrenByFieldName("name", cursor) {
		if !f.IsNamed() {
			continue
		}
		if !d.named {
			d.name = f.Utf8Text(src)
			d.named = true
			continue
		}
		d.also = append(d.also, f.Utf8Text(src))
	}
	return d
}

// withText builds a decl named after the full text of t, when t is present.
func withText(kind Kind, t *tree_sitter.Node, src []byte) decl {
	if t == nil {
		return decl{kind: kind}
	}
	return decl{kind: kind, name: t.Utf8Text(src), named: true}
}

// trimQuotes strips one pair of matching string delimiters.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// oneLine collapses runs of whitespace so multi-line paths read as one name.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
