// Package protocol encodes analysis results into the line-oriented,
// brace-delimited document read by the editor, and decodes it back.
package protocol

import (
	"io"
	"strconv"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/source"
)

// Version is the protocol version written in every document header.
const Version = "0.1"

// Writer emits protocol tokens to an underlying io.Writer as they are
// produced. It only guarantees token encoding; callers keep braces balanced.
//
// The first write error is retained: every later call returns it without
// writing anything.
type Writer struct {
	out io.Writer
	err error
	n   int64
}

// NewWriter wraps out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Written returns the number of bytes successfully written.
func (w *Writer) Written() int64 {
	return w.n
}

// Raw writes s unchanged.
func (w *Writer) Raw(s string) error {
	if w.err != nil {
		return w.err
	}
	n, err := io.WriteString(w.out, s)
	w.n += int64(n)
	if err != nil {
		w.err = err
	}
	return w.err
}

// String writes s as an escaped, quoted token followed by a space.
func (w *Writer) String(s string) error {
	return w.Raw(`"` + Escape(s) + `" `)
}

// Int writes a decimal number followed by a space.
func (w *Writer) Int(n int) error {
	return w.Raw(strconv.Itoa(n) + " ")
}

// Severity writes the severity tag followed by a space.
func (w *Writer) Severity(s diag.Severity) error {
	return w.Raw(s.String() + " ")
}

// Range writes r as "{ startLine startCol endLine endCol } ".
func (w *Writer) Range(r source.Range) error {
	w.Raw("{ ")
	w.Int(r.Start.Line)
	w.Int(r.Start.Column)
	w.Int(r.End.Line)
	w.Int(r.End.Column)
	return w.Raw("} ")
}

// OptRange writes r, or "{ } " when r is nil.
func (w *Writer) OptRange(r *source.Range) error {
	if r == nil {
		return w.Raw("{ } ")
	}
	return w.Range(*r)
}

// Message writes one MESSAGE entry terminated by a newline.
func (w *Writer) Message(m diag.Message) error {
	w.Raw("MESSAGE { ")
	w.Severity(m.Severity)
	w.OptRange(m.Range)
	w.String(m.Text)
	return w.Raw("}\n")
}

// Header writes the document header for tool.
func (w *Writer) Header(tool string) error {
	return w.Raw(tool + " " + Version + " {\n")
}
