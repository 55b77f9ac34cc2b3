package mcptools

import (
	"github.com/dusk-indust/parsedescribe/internal/protocol"
	"github.com/dusk-indust/parsedescribe/internal/source"
)

// DescribeSourceInput is the input for the describe_source MCP tool.
type DescribeSourceInput struct {
	Source   string `json:"source" jsonschema:"the full text of the buffer to analyze"`
	Language string `json:"language,omitempty" jsonschema:"grammar to parse with (default: rust). Values: go, python, rust, typescript"`
}

// DescribeFileInput is the input for the describe_file MCP tool.
type DescribeFileInput struct {
	Path     string `json:"path" jsonschema:"the absolute path of the file to analyze"`
	Language string `json:"language,omitempty" jsonschema:"grammar to parse with (default: picked from the file extension)"`
}

// DescribeOutput is the result of the describe_source and describe_file tools.
type DescribeOutput struct {
	Document string             `json:"document"`
	Failed   bool               `json:"failed"`
	Messages []protocol.Message `json:"messages"`
	Outline  []OutlineEntry     `json:"outline"`
}

// OutlineEntry is one outline element flattened in document order. Depth is
// 0 for top-level items and grows by one per nesting level.
type OutlineEntry struct {
	Kind  string       `json:"kind"`
	Name  string       `json:"name,omitempty"`
	Depth int          `json:"depth"`
	Range source.Range `json:"range"`
}

// ListLanguagesInput is the input for the list_languages MCP tool.
type ListLanguagesInput struct{}

// ListLanguagesOutput is the result of the list_languages MCP tool.
type ListLanguagesOutput struct {
	Languages []LanguageInfo `json:"languages"`
}

// LanguageInfo describes one supported grammar.
type LanguageInfo struct {
	Name       string   `json:"name"`
	Tool       string   `json:"tool"`
	Extensions []string `json:"extensions"`
}

// flatten walks els depth-first, preserving document order.
func flatten(els []protocol.Element, depth int, out []OutlineEntry) []OutlineEntry {
	for _, el := range els {
		e := OutlineEntry{Kind: el.Kind, Depth: depth, Range: el.Range}
		if el.Name != nil {
			e.Name = *el.Name
		}
		out = append(out, e)
		out = flatten(el.Children, depth+1, out)
	}
	return out
}
