// Package source resolves engine byte spans into line/column ranges of the
// analyzed buffer.
package source

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Span is a half-open byte interval [Start, End) into a source buffer, as
// reported by the parsing engine.
type Span struct {
	Start uint
	End   uint
}

// Position is a human-readable location. Line is 1-based, Column is 0-based
// and counted in characters (runes), not bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p comes strictly before q in document order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range delimits a construct or diagnostic location.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Valid reports whether Start does not come after End.
func (r Range) Valid() bool {
	return !r.End.Before(r.Start)
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Map indexes the line starts of one buffer. It is immutable after NewMap and
// safe for concurrent use.
type Map struct {
	src   []byte
	lines []uint // byte offset of the first byte of each line
}

// NewMap builds the line index for src. src must not be modified afterwards.
func NewMap(src []byte) *Map {
	lines := make([]uint, 1, 64)
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, uint(i)+1)
		}
	}
	return &Map{src: src, lines: lines}
}

// Size returns the length of the indexed buffer in bytes.
func (m *Map) Size() uint {
	return uint(len(m.src))
}

// LineCount returns the number of lines in the buffer. An empty buffer has one
// (empty) line.
func (m *Map) LineCount() int {
	return len(m.lines)
}

// Position converts a byte offset into a Position. Offsets past the end of
// the buffer are clamped to the end.
func (m *Map) Position(off uint) Position {
	if off > m.Size() {
		off = m.Size()
	}
	line := sort.Search(len(m.lines), func(i int) bool { return m.lines[i] > off }) - 1
	start := m.lines[line]
	return Position{
		Line:   line + 1,
		Column: utf8.RuneCount(m.src[start:off]),
	}
}

// Resolve converts a span into a Range. An inverted span is normalized so the
// result always satisfies Range.Valid.
func (m *Map) Resolve(sp Span) Range {
	if sp.End < sp.Start {
		sp.Start, sp.End = sp.End, sp.Start
	}
	return Range{Start: m.Position(sp.Start), End: m.Position(sp.End)}
}
