package engine

import (
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/dusk-indust/parsedescribe/internal/diag"
)

// TreeSitter implements Engine with tree-sitter grammars. A new
// tree_sitter.Parser is created per Parse call, so concurrent calls share no
// mutable state.
type TreeSitter struct {
	languages map[Language]*tree_sitter.Language
}

// NewTreeSitter creates a TreeSitter engine with Rust, Go, Python, and
// TypeScript grammars registered.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{
		languages: map[Language]*tree_sitter.Language{
			LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
			LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		},
	}
}

// Supports reports whether a grammar is registered for lang.
func (e *TreeSitter) Supports(lang Language) bool {
	_, ok := e.languages[lang]
	return ok
}

// Parse implements Engine.
func (e *TreeSitter) Parse(ctx context.Context, sess *Session, src []byte) (*Tree, error) {
	tsLang, ok := e.languages[sess.Language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, sess.Language)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", sess.Language, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		sess.Emitter.EmitCustom("tree-sitter returned no tree", diag.LevelCancelled)
		return nil, ErrParseFailed
	}

	rep := &reporter{emitter: sess.Emitter, src: src, items: sess.Language == LangRust}
	errs := rep.check(tree.RootNode())

	if sess.Language == LangRust {
		ml := &moduleLoader{parser: parser, resolver: sess.Resolver, emitter: sess.Emitter}
		errs += ml.load(tree.RootNode(), src, ".", 0, rep)
	}

	if errs > 0 {
		tree.Close()
		rep.abort(errs)
		return nil, ErrParseFailed
	}

	return &Tree{ts: tree, Source: src, Language: sess.Language}, nil
}
