package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// failingWriter accepts limit bytes, then fails every write.
type failingWriter struct {
	limit int
	buf   bytes.Buffer
}

var errBrokenPipe = errors.New("broken pipe")

func (f *failingWriter) Write(p []byte) (int, error) {
	room := f.limit - f.buf.Len()
	if room <= 0 {
		return 0, errBrokenPipe
	}
	if len(p) > room {
		f.buf.Write(p[:room])
		return room, errBrokenPipe
	}
	return f.buf.Write(p)
}

func rng(sl, sc, el, ec int) source.Range {
	return source.Range{
		Start: source.Position{Line: sl, Column: sc},
		End:   source.Position{Line: el, Column: ec},
	}
}

// ---------------------------------------------------------------------------
// Escaping
// ---------------------------------------------------------------------------

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`say "hi"`, `say \"hi\"`},
		{"a\\b", `a\\b`},
		{"line1\nline2", `line1\nline2`},
		{"tab\there\r", `tab\there\r`},
		{"bell\x07", `bell\u{07}`},
		{"del\x7f", `del\u{7F}`},
		{"unicode é 日", "unicode é 日"},
		{"latin1 \xe9t\xe9", `latin1 \x{E9}t\x{E9}`},
		{"cut \xe6\x97", `cut \x{E6}\x{97}`},
		{"\x80\u0080", `\x{80}` + "\u0080"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Escape(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\n")

			back, err := Unescape(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestUnescape_Malformed(t *testing.T) {
	for _, in := range []string{`trailing\`, `bad\q`, `\u07`, `\u{zz}`, `\u{07`, `\x{E`, `\x{ZZ}`, `\xE9`} {
		t.Run(in, func(t *testing.T) {
			_, err := Unescape(in)
			assert.Error(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// Writer
// ---------------------------------------------------------------------------

func TestWriter_Primitives(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Header("RUST_PARSE_DESCRIBE"))
	require.NoError(t, w.Severity(diag.SeverityWarning))
	require.NoError(t, w.Range(rng(1, 0, 3, 1)))
	require.NoError(t, w.OptRange(nil))
	require.NoError(t, w.String("a \"b\"\n"))
	require.NoError(t, w.Int(42))

	assert.Equal(t,
		"RUST_PARSE_DESCRIBE 0.1 {\nWARNING { 1 0 3 1 } { } \"a \\\"b\\\"\\n\" 42 ",
		buf.String())
	assert.Equal(t, int64(buf.Len()), w.Written())
}

func TestWriter_Message(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	r := rng(2, 4, 2, 9)
	require.NoError(t, w.Message(diag.Message{Range: &r, Severity: diag.SeverityError, Text: "expected `;`"}))
	require.NoError(t, w.Message(diag.Message{Severity: diag.SeverityOK, Text: "done"}))

	assert.Equal(t,
		"MESSAGE { ERROR { 2 4 2 9 } \"expected `;`\" }\n"+
			"MESSAGE { OK { } \"done\" }\n",
		buf.String())
}

func TestWriter_StickyError(t *testing.T) {
	fw := &failingWriter{limit: 10}
	w := NewWriter(fw)

	assert.NoError(t, w.Raw("0123456789"))
	assert.ErrorIs(t, w.Raw("x"), errBrokenPipe)
	assert.ErrorIs(t, w.String("more"), errBrokenPipe)
	assert.ErrorIs(t, w.Range(rng(1, 0, 1, 1)), errBrokenPipe)
	assert.ErrorIs(t, w.Err(), errBrokenPipe)

	assert.Equal(t, "0123456789", fw.buf.String(), "nothing is written after the failure")
	assert.Equal(t, int64(10), w.Written())
}

// ---------------------------------------------------------------------------
// Decode
// ---------------------------------------------------------------------------

const sampleDoc = `RUST_PARSE_DESCRIBE 0.1 {
MESSAGES {
MESSAGE { WARNING { 3 0 3 1 } "unnecessary trailing semicolon" }
MESSAGE { ERROR { } "line one\nline \"two\"" }
}
Enum { "Color" { 1 0 4 1 } {
EnumVariant { "Red" { 2 4 2 7 } {} }
EnumVariant { "Green" { 3 4 3 9 } {} }} }
Impl { { 5 0 7 1 } {
Function { "new" { 6 4 6 20 } {} }} }
}
`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "RUST_PARSE_DESCRIBE", doc.Tool)
	assert.Equal(t, Version, doc.Version)

	require.Len(t, doc.Messages, 2)
	assert.Equal(t, "WARNING", doc.Messages[0].Severity)
	require.NotNil(t, doc.Messages[0].Range)
	assert.Equal(t, rng(3, 0, 3, 1), *doc.Messages[0].Range)
	assert.Nil(t, doc.Messages[1].Range)
	assert.Equal(t, "line one\nline \"two\"", doc.Messages[1].Text)

	require.Len(t, doc.Elements, 2)
	enum := doc.Elements[0]
	assert.Equal(t, "Enum", enum.Kind)
	require.NotNil(t, enum.Name)
	assert.Equal(t, "Color", *enum.Name)
	assert.Equal(t, rng(1, 0, 4, 1), enum.Range)
	require.Len(t, enum.Children, 2)
	assert.Equal(t, "Green", *enum.Children[1].Name)

	impl := doc.Elements[1]
	assert.Equal(t, "Impl", impl.Kind)
	assert.Nil(t, impl.Name)
	require.Len(t, impl.Children, 1)
	assert.Equal(t, "Function", impl.Children[0].Kind)
}

func TestDecode_EmptyDocument(t *testing.T) {
	doc, err := Decode(strings.NewReader("GO_PARSE_DESCRIBE 0.1 {\nMESSAGES {\n}\n}"))
	require.NoError(t, err)
	assert.Empty(t, doc.Messages)
	assert.Empty(t, doc.Elements)
	assert.NotNil(t, doc.Messages)
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"truncated":          "RUST_PARSE_DESCRIBE 0.1 {\nMESSAGES {\n",
		"bad severity":       "T 0.1 {\nMESSAGES {\nMESSAGE { FATAL { } \"x\" }\n}\n}",
		"short range":        "T 0.1 {\nMESSAGES {\nMESSAGE { OK { 1 2 } \"x\" }\n}\n}",
		"missing range":      "T 0.1 {\nMESSAGES {\n}\nStruct { \"S\" { } {} }\n}",
		"non numeric range":  "T 0.1 {\nMESSAGES {\nMESSAGE { OK { a b c d } \"x\" }\n}\n}",
		"unterminated quote": "T 0.1 {\nMESSAGES {\nMESSAGE { OK { } \"x }\n}\n}",
		"missing messages":   "T 0.1 {\n}",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDecode_TruncatedIsUnexpectedEOF(t *testing.T) {
	_, err := Decode(strings.NewReader("RUST_PARSE_DESCRIBE 0.1 {\nMESSAGES {\n}\nStruct { \"S\" "))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
