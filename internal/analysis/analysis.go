// Package analysis runs the parse pipeline over one buffer and writes the
// resulting diagnostics and outline as a single protocol document.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/engine"
	"github.com/dusk-indust/parsedescribe/internal/outline"
	"github.com/dusk-indust/parsedescribe/internal/protocol"
	"github.com/dusk-indust/parsedescribe/internal/source"
)

// Result is the outcome of one analysis. Tree is nil when the parse failed;
// Messages are populated either way.
type Result struct {
	Messages []diag.Message
	Tree     *engine.Tree
	Map      *source.Map
}

// Failed reports whether the parse produced no tree.
func (r *Result) Failed() bool {
	return r.Tree == nil
}

// Close releases the syntax tree, if any.
func (r *Result) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Analyzer wires an Engine to a fresh diagnostics collector and resolver for
// every call. It holds no per-call state and is safe for concurrent use as
// long as its Engine is.
type Analyzer struct {
	engine      engine.Engine
	newResolver func() engine.Resolver
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEngine replaces the tree-sitter engine.
func WithEngine(e engine.Engine) Option {
	return func(a *Analyzer) { a.engine = e }
}

// WithResolver sets the factory for the per-call module resolver.
func WithResolver(f func() engine.Resolver) Option {
	return func(a *Analyzer) { a.newResolver = f }
}

// New creates an Analyzer backed by tree-sitter and the virtual resolver.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		engine:      engine.NewTreeSitter(),
		newResolver: func() engine.Resolver { return engine.NewVirtualResolver() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze parses src as one self-contained compilation unit. A failed parse
// is not an error: it yields a Result without a Tree. An error is returned
// only when the engine could not run at all.
func (a *Analyzer) Analyze(ctx context.Context, lang engine.Language, src []byte) (*Result, error) {
	sm := source.NewMap(src)
	col := diag.NewCollector(sm)
	sess := &engine.Session{
		Language: lang,
		Resolver: a.newResolver(),
		Emitter:  col,
	}

	tree, err := a.engine.Parse(ctx, sess, src)
	if err != nil && !errors.Is(err, engine.ErrParseFailed) {
		return nil, fmt.Errorf("analyze %s: %w", lang, err)
	}
	if err != nil && tree != nil {
		tree.Close()
		tree = nil
	}

	return &Result{Messages: col.Messages(), Tree: tree, Map: sm}, nil
}

// Describe analyzes src and writes exactly one document to out. The document
// is streamed as it is produced; a write error aborts the rest of it and is
// returned.
func (a *Analyzer) Describe(ctx context.Context, lang engine.Language, src []byte, out io.Writer) error {
	res, err := a.Analyze(ctx, lang, src)
	if err != nil {
		return err
	}
	defer res.Close()
	return Write(res, lang, out)
}

// Write renders res as one document: the header, every message in arrival
// order, then the outline when the parse produced a tree.
func Write(res *Result, lang engine.Language, out io.Writer) error {
	w := protocol.NewWriter(out)
	w.Header(lang.ToolTag())
	w.Raw("MESSAGES {\n")
	for _, m := range res.Messages {
		w.Message(m)
	}
	if err := w.Raw("}"); err != nil {
		return fmt.Errorf("write messages: %w", err)
	}

	if res.Tree != nil {
		if err := outline.Extract(res.Tree, res.Map, w); err != nil {
			return fmt.Errorf("write outline: %w", err)
		}
	}

	if err := w.Raw("\n}\n"); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
