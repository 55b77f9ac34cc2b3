package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/parsedescribe/internal/protocol"
)

// GenerateMermaid produces a Mermaid graph TD diagram of the outline. The
// root node is the document tool tag; every element hangs off its parent.
func GenerateMermaid(doc *protocol.Document) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("  N0[\"%s\"]\n", label(doc.Tool)))

	next := 1
	var walk func(parent string, els []protocol.Element)
	walk = func(parent string, els []protocol.Element) {
		for _, el := range els {
			id := fmt.Sprintf("N%d", next)
			next++

			text := el.Kind
			if el.Name != nil && *el.Name != "" {
				text += " " + *el.Name
			}
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", id, label(text)))
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", parent, id))
			walk(id, el.Children)
		}
	}
	walk("N0", doc.Elements)

	return sb.String()
}

// maxLabel caps a node label, in runes.
const maxLabel = 40

// label shortens text to maxLabel runes and makes it safe inside a quoted
// Mermaid node label. Escaping comes last so entities are never cut.
func label(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxLabel {
		text = string(r[:maxLabel])
	}
	return strings.ReplaceAll(text, "\"", "#quot;")
}
