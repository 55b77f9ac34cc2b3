package engine

import (
	"fmt"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/source"
)

// maxTokenText caps how much of an offending token is quoted in a message.
const maxTokenText = 32

// reporter turns ERROR and MISSING nodes into diagnostics.
type reporter struct {
	emitter diag.Emitter
	src     []byte

	// at replaces every node span when the tree belongs to another file.
	at     *source.Span
	prefix string

	// items rejects statements that are not items in an item list.
	items bool
}

func (r *reporter) spanOf(n *tree_sitter.Node) *source.Span {
	if r.at != nil {
		sp := *r.at
		return &sp
	}
	sp := SpanOf(n)
	return &sp
}

func (r *reporter) error(n *tree_sitter.Node, msg string) {
	r.emitter.Emit(r.spanOf(n), r.prefix+msg, nil, diag.LevelError)
}

// check reports every syntax problem below root and returns how many errors
// it emitted.
func (r *reporter) check(root *tree_sitter.Node) int {
	cursor := root.Walk()
	defer cursor.Close()

	return r.walk(cursor)
}

func (r *reporter) walk(cursor *tree_sitter.TreeCursor) int {
	node := cursor.Node()

	switch {
	case node.IsError():
		r.unexpected(node)
		return 1
	case node.IsMissing():
		r.missing(node)
		return 1
	}

	errs := 0
	if isItemList(node.Kind()) {
		r.redundantSemicolons(node)
		if r.items {
			errs += r.nonItems(node)
		}
	}
	if !node.HasError() && !mayHoldItemList(node.Kind()) {
		return errs
	}

	if cursor.GotoFirstChild() {
		errs += r.walk(cursor)
		for cursor.GotoNextSibling() {
			errs += r.walk(cursor)
		}
		cursor.GotoParent()
	}
	return errs
}

func (r *reporter) unexpected(n *tree_sitter.Node) {
	tok := firstToken(n, r.src)
	if tok == "" {
		r.error(n, "unexpected end of file")
	} else {
		r.error(n, fmt.Sprintf("unexpected `%s`", tok))
	}
	r.emitter.EmitCustom(
		fmt.Sprintf("help: the parser skipped %d bytes to recover", n.EndByte()-n.StartByte()),
		diag.LevelHelp,
	)
}

func (r *reporter) missing(n *tree_sitter.Node) {
	if n.IsNamed() {
		r.error(n, "expected "+n.Kind())
		return
	}
	r.error(n, fmt.Sprintf("expected `%s`", n.Kind()))
}

func (r *reporter) redundantSemicolons(list *tree_sitter.Node) {
	for i := uint(0); i < list.ChildCount(); i++ {
		child := list.Child(i)
		if child == nil || child.Kind() != "empty_statement" {
			continue
		}
		r.emitter.Emit(r.spanOf(child), r.prefix+"unnecessary trailing semicolon", nil, diag.LevelWarning)
		r.emitter.EmitCustom("help: remove this semicolon", diag.LevelHelp)
	}
}

// nonItems reports let bindings and expression statements placed where
// only items may appear. Item-level macro invocations are accepted.
func (r *reporter) nonItems(list *tree_sitter.Node) int {
	errs := 0
	for i := uint(0); i < list.NamedChildCount(); i++ {
		child := list.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "let_declaration":
		case "expression_statement":
			if inner := child.NamedChild(0); inner != nil && inner.Kind() == "macro_invocation" && child.NamedChildCount() == 1 {
				continue
			}
		default:
			continue
		}
		r.error(child, fmt.Sprintf("expected item, found `%s`", firstToken(child, r.src)))
		errs++
	}
	return errs
}

// abort emits the trailer that closes a failed parse.
func (r *reporter) abort(errs int) {
	msg := "aborting due to previous error"
	if errs > 1 {
		msg = fmt.Sprintf("aborting due to %d previous errors", errs)
	}
	r.emitter.Emit(nil, msg, nil, diag.LevelFatal)
}

// isItemList reports whether a node kind holds declarations directly.
func isItemList(kind string) bool {
	switch kind {
	case "source_file", "declaration_list", "program":
		return true
	}
	return false
}

// mayHoldItemList reports whether an error-free node can still contain an
// item list that needs a redundant-semicolon check.
func mayHoldItemList(kind string) bool {
	switch kind {
	case "source_file", "program", "mod_item", "impl_item", "trait_item",
		"foreign_mod_item", "declaration_list":
		return true
	}
	return false
}

// firstToken returns the text of the first leaf below n, shortened for
// display.
func firstToken(n *tree_sitter.Node, src []byte) string {
	for n.ChildCount() > 0 {
		first := n.Child(0)
		if first == nil {
			break
		}
		n = first
	}
	text := n.Utf8Text(src)
	if len(text) > maxTokenText {
		cut := maxTokenText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
