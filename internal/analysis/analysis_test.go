package analysis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/engine"
	"github.com/dusk-indust/parsedescribe/internal/protocol"
	"github.com/dusk-indust/parsedescribe/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// scriptedEngine emits a fixed set of diagnostics and always fails the parse.
type scriptedEngine struct {
	script func(diag.Emitter)
}

func (s scriptedEngine) Parse(_ context.Context, sess *engine.Session, _ []byte) (*engine.Tree, error) {
	s.script(sess.Emitter)
	return nil, engine.ErrParseFailed
}

func readFixture(t *testing.T, relPath string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../" + relPath)
	require.NoError(t, err, "reading fixture %s", relPath)
	return data
}

func describe(t *testing.T, a *Analyzer, lang engine.Language, src string) (string, *protocol.Document) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, a.Describe(context.Background(), lang, []byte(src), &buf))

	doc, err := protocol.Decode(strings.NewReader(buf.String()))
	require.NoError(t, err, "document:\n%s", buf.String())
	return buf.String(), doc
}

func allElements(els []protocol.Element) []protocol.Element {
	var out []protocol.Element
	for _, el := range els {
		out = append(out, el)
		out = append(out, allElements(el.Children)...)
	}
	return out
}

// ---------------------------------------------------------------------------
// Analyze
// ---------------------------------------------------------------------------

func TestAnalyze_Success(t *testing.T) {
	res, err := New().Analyze(context.Background(), engine.LangRust, []byte("fn main() {}\n"))
	require.NoError(t, err)
	defer res.Close()

	assert.False(t, res.Failed())
	assert.Empty(t, res.Messages)
	assert.Equal(t, "source_file", res.Tree.Root().Kind())
}

func TestAnalyze_FailureIsAnOutcome(t *testing.T) {
	res, err := New().Analyze(context.Background(), engine.LangRust, []byte("struct S {"))
	require.NoError(t, err)
	defer res.Close()

	assert.True(t, res.Failed())
	require.NotEmpty(t, res.Messages)
	assert.Equal(t, diag.SeverityError, res.Messages[0].Severity)
}

func TestAnalyze_EngineErrorIsReturned(t *testing.T) {
	_, err := New().Analyze(context.Background(), engine.Language("cobol"), []byte("x"))
	assert.ErrorIs(t, err, engine.ErrUnsupportedLanguage)
}

func TestAnalyze_ResolverPerCall(t *testing.T) {
	calls := 0
	a := New(WithResolver(func() engine.Resolver {
		calls++
		return engine.NewVirtualResolver()
	}))

	for i := 0; i < 3; i++ {
		res, err := a.Analyze(context.Background(), engine.LangRust, []byte("mod a;"))
		require.NoError(t, err)
		assert.False(t, res.Failed())
		res.Close()
	}
	assert.Equal(t, 3, calls)
}

// ---------------------------------------------------------------------------
// Describe
// ---------------------------------------------------------------------------

func TestDescribe_CleanInput(t *testing.T) {
	src := "trait Greeter {\n    fn greet(&self) -> String;\n}\n"
	out, doc := describe(t, New(), engine.LangRust, src)

	assert.Equal(t,
		"RUST_PARSE_DESCRIBE 0.1 {\n"+
			"MESSAGES {\n"+
			"}\n"+
			"Trait { \"Greeter\" { 1 0 3 1 } {\n"+
			"Function { \"greet\" { 2 4 2 30 } {} }} }\n"+
			"}\n",
		out)

	assert.Equal(t, "RUST_PARSE_DESCRIBE", doc.Tool)
	assert.Empty(t, doc.Messages)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, "Trait", doc.Elements[0].Kind)
	require.Len(t, doc.Elements[0].Children, 1)
	assert.Equal(t, "Function", doc.Elements[0].Children[0].Kind)
}

func TestDescribe_MalformedInput(t *testing.T) {
	src := "struct Point {\n    x: f64,\n    y: f64,\n\nfn main() {}\n"
	_, doc := describe(t, New(), engine.LangRust, src)

	assert.Empty(t, doc.Elements, "no outline when the parse fails")
	require.NotEmpty(t, doc.Messages)

	located := 0
	for _, m := range doc.Messages {
		assert.Equal(t, "ERROR", m.Severity)
		if m.Range != nil {
			located++
		}
	}
	assert.Positive(t, located, "at least one error carries a range")
}

func TestDescribe_WarningsKeepTheOutline(t *testing.T) {
	_, doc := describe(t, New(), engine.LangRust, "struct A;\n;\n")

	require.Len(t, doc.Messages, 1)
	assert.Equal(t, "WARNING", doc.Messages[0].Severity)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, "Struct", doc.Elements[0].Kind)
}

func TestDescribe_RangesStayInsideTheBuffer(t *testing.T) {
	inputs := map[string]string{
		"fixture":    string(readFixture(t, "testdata/fixtures/outline/shapes.rs")),
		"malformed":  "impl X {\n    fn a(&self) {\n",
		"stray":      "}}}",
		"unicode":    "const Ω: &str = \"∑\";\nfn ü() {",
		"empty":      "",
		"eof inside": "enum E { A,",
	}
	for name, src := range inputs {
		t.Run(name, func(t *testing.T) {
			_, doc := describe(t, New(), engine.LangRust, src)
			sm := source.NewMap([]byte(src))
			end := sm.Position(sm.Size())

			var ranges []source.Range
			for _, m := range doc.Messages {
				if m.Range != nil {
					ranges = append(ranges, *m.Range)
				}
			}
			for _, el := range allElements(doc.Elements) {
				ranges = append(ranges, el.Range)
			}
			for _, r := range ranges {
				assert.True(t, r.Valid(), "range %s", r)
				assert.GreaterOrEqual(t, r.Start.Line, 1)
				assert.False(t, end.Before(r.End), "range %s past %s", r, end)
			}
		})
	}
}

func TestDescribe_Idempotent(t *testing.T) {
	a := New()
	for _, src := range []string{
		string(readFixture(t, "testdata/fixtures/outline/shapes.rs")),
		"struct Broken {\n",
	} {
		first, _ := describe(t, a, engine.LangRust, src)
		second, _ := describe(t, a, engine.LangRust, src)
		assert.Equal(t, first, second)
	}
}

func TestDescribe_ConcurrentCallsAreIndependent(t *testing.T) {
	a := New()
	inputs := []struct {
		lang engine.Language
		src  string
	}{
		{engine.LangRust, string(readFixture(t, "testdata/fixtures/outline/shapes.rs"))},
		{engine.LangRust, "fn broken( {"},
		{engine.LangGo, string(readFixture(t, "testdata/fixtures/go_project/service.go"))},
		{engine.LangPython, string(readFixture(t, "testdata/fixtures/outline/models.py"))},
		{engine.LangTypeScript, string(readFixture(t, "testdata/fixtures/outline/store.ts"))},
	}

	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i], _ = describe(t, a, in.lang, in.src)
	}

	const rounds = 4
	got := make([]string, len(inputs)*rounds)
	errs := make([]error, len(got))
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := inputs[i%len(inputs)]
			var buf bytes.Buffer
			errs[i] = a.Describe(context.Background(), in.lang, []byte(in.src), &buf)
			got[i] = buf.String()
		}()
	}
	wg.Wait()

	for i := range got {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i%len(inputs)], got[i])
	}
}

func TestDescribe_PreservesEmissionOrder(t *testing.T) {
	a := New(WithEngine(scriptedEngine{script: func(e diag.Emitter) {
		e.Emit(&source.Span{Start: 4, End: 5}, "second-level warning", nil, diag.LevelWarning)
		e.Emit(&source.Span{Start: 0, End: 3}, "first error", nil, diag.LevelError)
		e.EmitCustom("renderer note", diag.LevelNote)
		e.Emit(nil, "located note", nil, diag.LevelNote)
		e.EmitCustom("renderer error", diag.LevelError)
	}}))

	_, doc := describe(t, a, engine.LangRust, "abc def")

	require.Len(t, doc.Messages, 4)
	assert.Equal(t, "second-level warning", doc.Messages[0].Text)
	assert.Equal(t, "WARNING", doc.Messages[0].Severity)
	assert.Equal(t, "first error", doc.Messages[1].Text)
	assert.Equal(t, "located note", doc.Messages[2].Text)
	assert.Equal(t, "OK", doc.Messages[2].Severity)
	assert.Equal(t, "renderer error", doc.Messages[3].Text)
	assert.Nil(t, doc.Messages[3].Range)
	assert.Empty(t, doc.Elements)
}

func TestDescribe_EscapedMessageRoundTrip(t *testing.T) {
	text := "expected `\"`\nfound \\ instead\t(tab)"
	a := New(WithEngine(scriptedEngine{script: func(e diag.Emitter) {
		e.Emit(nil, text, nil, diag.LevelError)
	}}))

	out, doc := describe(t, a, engine.LangRust, "x")

	// One MESSAGE line: the newline in the text is escaped.
	assert.Equal(t, 1, strings.Count(out, "MESSAGE {"))
	assert.Contains(t, out, `"expected `+"`"+`\"`+"`"+`\nfound \\ instead\t(tab)" }`+"\n")
	require.Len(t, doc.Messages, 1)
	assert.Equal(t, text, doc.Messages[0].Text)
}

func TestDescribe_DiagnosticCodeAborts(t *testing.T) {
	code := "E0425"
	a := New(WithEngine(scriptedEngine{script: func(e diag.Emitter) {
		e.Emit(nil, "unresolved name", &code, diag.LevelError)
	}}))

	var buf bytes.Buffer
	assert.Panics(t, func() {
		_ = a.Describe(context.Background(), engine.LangRust, []byte("x"), &buf)
	})
	assert.Empty(t, buf.String(), "no partial document")
}

func TestDescribe_UnrecoverableLevelAborts(t *testing.T) {
	for _, lvl := range []diag.Level{diag.LevelBug, diag.LevelCancelled} {
		t.Run(lvl.String(), func(t *testing.T) {
			a := New(WithEngine(scriptedEngine{script: func(e diag.Emitter) {
				e.EmitCustom("engine state", lvl)
			}}))
			assert.Panics(t, func() {
				_ = a.Describe(context.Background(), engine.LangRust, []byte("x"), &bytes.Buffer{})
			})
		})
	}
}

func TestDescribe_WriteFailureAborts(t *testing.T) {
	broken := errors.New("broken pipe")
	src := readFixture(t, "testdata/fixtures/outline/shapes.rs")

	for _, limit := range []int{0, 20, 60, 400} {
		w := &cutoffWriter{limit: limit, err: broken}
		err := New().Describe(context.Background(), engine.LangRust, src, w)
		assert.ErrorIs(t, err, broken, "limit %d", limit)
		assert.LessOrEqual(t, w.n, limit)
	}
}

type cutoffWriter struct {
	limit int
	n     int
	err   error
}

func (c *cutoffWriter) Write(p []byte) (int, error) {
	if c.n+len(p) > c.limit {
		return 0, c.err
	}
	c.n += len(p)
	return len(p), nil
}

func TestDescribe_UnsupportedLanguageWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := New().Describe(context.Background(), engine.Language("cobol"), []byte("x"), &buf)
	assert.ErrorIs(t, err, engine.ErrUnsupportedLanguage)
	assert.Zero(t, buf.Len())
}
