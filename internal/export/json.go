package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dusk-indust/parsedescribe/internal/protocol"
)

// DocumentExport is the JSON form of one decoded document.
type DocumentExport struct {
	Tool     string             `json:"tool"`
	Version  string             `json:"version"`
	Failed   bool               `json:"failed"`
	Messages []protocol.Message `json:"messages"`
	Elements []protocol.Element `json:"elements"`
	Counts   Counts             `json:"counts"`
}

// Counts summarizes a document.
type Counts struct {
	Errors   int            `json:"errors"`
	Warnings int            `json:"warnings"`
	Elements map[string]int `json:"elements"`
}

// NewDocumentExport builds a DocumentExport from doc.
func NewDocumentExport(doc *protocol.Document) *DocumentExport {
	out := &DocumentExport{
		Tool:     doc.Tool,
		Version:  doc.Version,
		Messages: doc.Messages,
		Elements: doc.Elements,
		Counts:   Counts{Elements: map[string]int{}},
	}
	for _, m := range doc.Messages {
		switch m.Severity {
		case "ERROR":
			out.Counts.Errors++
		case "WARNING":
			out.Counts.Warnings++
		}
	}
	out.Failed = out.Counts.Errors > 0
	countElements(doc.Elements, out.Counts.Elements)
	return out
}

func countElements(els []protocol.Element, into map[string]int) {
	for _, el := range els {
		into[el.Kind]++
		countElements(el.Children, into)
	}
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc *protocol.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocumentExport(doc)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
