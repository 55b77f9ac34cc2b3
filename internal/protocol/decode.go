package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dusk-indust/parsedescribe/internal/source"
)

// Document is the decoded form of one analysis document.
type Document struct {
	Tool     string    `json:"tool"`
	Version  string    `json:"version"`
	Messages []Message `json:"messages"`
	Elements []Element `json:"elements"`
}

// Message is a decoded MESSAGE entry.
type Message struct {
	Severity string        `json:"severity"`
	Range    *source.Range `json:"range,omitempty"`
	Text     string        `json:"text"`
}

// Element is a decoded outline element.
type Element struct {
	Kind     string       `json:"kind"`
	Name     *string      `json:"name,omitempty"`
	Range    source.Range `json:"range"`
	Children []Element    `json:"children,omitempty"`
}

// Decode reads exactly one document from r.
func Decode(r io.Reader) (*Document, error) {
	d := &decoder{r: bufio.NewReader(r)}

	doc := &Document{Messages: []Message{}, Elements: []Element{}}
	var err error
	if doc.Tool, err = d.word(); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if doc.Version, err = d.word(); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if err := d.expect("{"); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if err := d.expect("MESSAGES"); err != nil {
		return nil, err
	}
	if err := d.expect("{"); err != nil {
		return nil, err
	}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, fmt.Errorf("messages: %w", err)
		}
		if tok.kind == tokClose {
			break
		}
		if tok.kind != tokWord || tok.text != "MESSAGE" {
			return nil, fmt.Errorf("messages: expected MESSAGE, got %s", tok)
		}
		m, err := d.message()
		if err != nil {
			return nil, err
		}
		doc.Messages = append(doc.Messages, m)
	}

	for {
		tok, err := d.next()
		if err != nil {
			return nil, fmt.Errorf("outline: %w", err)
		}
		if tok.kind == tokClose {
			return doc, nil
		}
		if tok.kind != tokWord {
			return nil, fmt.Errorf("outline: expected element kind, got %s", tok)
		}
		el, err := d.element(tok.text)
		if err != nil {
			return nil, err
		}
		doc.Elements = append(doc.Elements, el)
	}
}

// ---------------------------------------------------------------------------
// Grammar
// ---------------------------------------------------------------------------

func (d *decoder) message() (Message, error) {
	var m Message
	if err := d.expect("{"); err != nil {
		return m, fmt.Errorf("message: %w", err)
	}
	sev, err := d.word()
	if err != nil {
		return m, fmt.Errorf("message severity: %w", err)
	}
	switch sev {
	case "OK", "WARNING", "ERROR":
		m.Severity = sev
	default:
		return m, fmt.Errorf("message severity: unknown %q", sev)
	}
	if m.Range, err = d.optRange(); err != nil {
		return m, fmt.Errorf("message range: %w", err)
	}
	tok, err := d.next()
	if err != nil {
		return m, fmt.Errorf("message text: %w", err)
	}
	if tok.kind != tokString {
		return m, fmt.Errorf("message text: expected string, got %s", tok)
	}
	m.Text = tok.text
	if err := d.expect("}"); err != nil {
		return m, fmt.Errorf("message: %w", err)
	}
	return m, nil
}

func (d *decoder) element(kind string) (Element, error) {
	el := Element{Kind: kind}
	if err := d.expect("{"); err != nil {
		return el, fmt.Errorf("element %s: %w", kind, err)
	}

	tok, err := d.next()
	if err != nil {
		return el, fmt.Errorf("element %s: %w", kind, err)
	}
	if tok.kind == tokString {
		name := tok.text
		el.Name = &name
		if tok, err = d.next(); err != nil {
			return el, fmt.Errorf("element %s: %w", kind, err)
		}
	}
	if tok.kind != tokOpen {
		return el, fmt.Errorf("element %s: expected range, got %s", kind, tok)
	}
	r, err := d.rangeBody()
	if err != nil {
		return el, fmt.Errorf("element %s range: %w", kind, err)
	}
	if r == nil {
		return el, fmt.Errorf("element %s: range is required", kind)
	}
	el.Range = *r

	if err := d.expect("{"); err != nil {
		return el, fmt.Errorf("element %s children: %w", kind, err)
	}
	for {
		tok, err := d.next()
		if err != nil {
			return el, fmt.Errorf("element %s children: %w", kind, err)
		}
		if tok.kind == tokClose {
			break
		}
		if tok.kind != tokWord {
			return el, fmt.Errorf("element %s children: expected kind, got %s", kind, tok)
		}
		child, err := d.element(tok.text)
		if err != nil {
			return el, err
		}
		el.Children = append(el.Children, child)
	}
	if err := d.expect("}"); err != nil {
		return el, fmt.Errorf("element %s: %w", kind, err)
	}
	return el, nil
}

func (d *decoder) optRange() (*source.Range, error) {
	if err := d.expect("{"); err != nil {
		return nil, err
	}
	return d.rangeBody()
}

// rangeBody parses the remainder of a range after its opening brace.
func (d *decoder) rangeBody() (*source.Range, error) {
	var nums [4]int
	for i := 0; ; i++ {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokClose {
			switch i {
			case 0:
				return nil, nil
			case 4:
				return &source.Range{
					Start: source.Position{Line: nums[0], Column: nums[1]},
					End:   source.Position{Line: nums[2], Column: nums[3]},
				}, nil
			}
			return nil, fmt.Errorf("range has %d fields, want 0 or 4", i)
		}
		if i == 4 || tok.kind != tokWord {
			return nil, fmt.Errorf("unexpected %s in range", tok)
		}
		if nums[i], err = strconv.Atoi(tok.text); err != nil {
			return nil, fmt.Errorf("range field: %w", err)
		}
	}
}

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

type tokKind int

const (
	tokWord tokKind = iota
	tokString
	tokOpen
	tokClose
)

type token struct {
	kind tokKind
	text string
}

func (t token) String() string {
	switch t.kind {
	case tokOpen:
		return "'{'"
	case tokClose:
		return "'}'"
	case tokString:
		return strconv.Quote(t.text)
	}
	return "'" + t.text + "'"
}

type decoder struct {
	r *bufio.Reader
}

func (d *decoder) next() (token, error) {
	var c byte
	var err error
	for {
		if c, err = d.r.ReadByte(); err != nil {
			if errors.Is(err, io.EOF) {
				return token{}, io.ErrUnexpectedEOF
			}
			return token{}, err
		}
		if c != ' ' && c != '\n' && c != '\r' && c != '\t' {
			break
		}
	}

	switch c {
	case '{':
		return token{kind: tokOpen, text: "{"}, nil
	case '}':
		return token{kind: tokClose, text: "}"}, nil
	case '"':
		return d.quoted()
	}

	var b strings.Builder
	b.WriteByte(c)
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return token{kind: tokWord, text: b.String()}, nil
			}
			return token{}, err
		}
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '{' || c == '}' || c == '"' {
			if err := d.r.UnreadByte(); err != nil {
				return token{}, err
			}
			return token{kind: tokWord, text: b.String()}, nil
		}
		b.WriteByte(c)
	}
}

func (d *decoder) quoted() (token, error) {
	var b strings.Builder
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return token{}, fmt.Errorf("unterminated string: %w", io.ErrUnexpectedEOF)
		}
		switch c {
		case '"':
			s, err := Unescape(b.String())
			if err != nil {
				return token{}, err
			}
			return token{kind: tokString, text: s}, nil
		case '\\':
			next, err := d.r.ReadByte()
			if err != nil {
				return token{}, fmt.Errorf("unterminated string: %w", io.ErrUnexpectedEOF)
			}
			b.WriteByte(c)
			b.WriteByte(next)
		default:
			b.WriteByte(c)
		}
	}
}

func (d *decoder) word() (string, error) {
	tok, err := d.next()
	if err != nil {
		return "", err
	}
	if tok.kind != tokWord {
		return "", fmt.Errorf("expected word, got %s", tok)
	}
	return tok.text, nil
}

func (d *decoder) expect(text string) error {
	tok, err := d.next()
	if err != nil {
		return err
	}
	if tok.text != text || tok.kind == tokString {
		return fmt.Errorf("expected %q, got %s", text, tok)
	}
	return nil
}
