// Package engine adapts tree-sitter into a parsing engine that reports
// syntax problems as diagnostics and hands back a syntax tree only when the
// buffer parsed cleanly.
package engine

import (
	"context"
	"errors"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/source"
)

// ErrParseFailed is the failure outcome of a parse. The diagnostics that
// explain it have already been emitted to the session's Emitter.
var ErrParseFailed = errors.New("parse failed")

// ErrUnsupportedLanguage is returned for a language without a grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// MaxModuleDepth bounds how deep out-of-line module files are followed.
const MaxModuleDepth = 16

// Session carries the collaborators of one parse. It is used for a single
// call and discarded afterwards.
type Session struct {
	Language Language
	Resolver Resolver
	Emitter  diag.Emitter
}

// Engine turns a buffer into a syntax tree.
//
// Parse returns ErrParseFailed (possibly wrapped) when the buffer could not
// be parsed; any other error means the engine itself could not run.
type Engine interface {
	Parse(ctx context.Context, sess *Session, src []byte) (*Tree, error)
}

// Tree is a successfully parsed buffer. Callers must Close it.
type Tree struct {
	ts       *tree_sitter.Tree
	Source   []byte
	Language Language
}

// Root returns the root node of the tree.
func (t *Tree) Root() *tree_sitter.Node {
	return t.ts.RootNode()
}

// Close releases the tree-sitter tree.
func (t *Tree) Close() {
	if t.ts != nil {
		t.ts.Close()
		t.ts = nil
	}
}

// SpanOf returns the byte span of n.
func SpanOf(n *tree_sitter.Node) source.Span {
	return source.Span{Start: n.StartByte(), End: n.EndByte()}
}
