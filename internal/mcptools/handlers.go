package mcptools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dusk-indust/parsedescribe/internal/analysis"
	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/dusk-indust/parsedescribe/internal/engine"
	"github.com/dusk-indust/parsedescribe/internal/protocol"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DescribeService holds the analyzer and language defaults used by MCP tool
// handlers. Every call analyzes its input from scratch.
type DescribeService struct {
	analyzer   *analysis.Analyzer
	fallback   engine.Language
	extensions map[string]engine.Language
	onAbort    func(error)
}

// NewDescribeService creates a DescribeService with the given analyzer.
func NewDescribeService(a *analysis.Analyzer) *DescribeService {
	return &DescribeService{analyzer: a, fallback: engine.DefaultLanguage}
}

// SetDefaults sets the language used when a call names none, and extra
// extension mappings for describe_file. extra may be nil.
func (s *DescribeService) SetDefaults(fallback engine.Language, extra map[string]engine.Language) {
	if fallback != "" {
		s.fallback = fallback
	}
	s.extensions = extra
}

// OnAbort registers f to be called with every engine abort, before the abort
// is returned to the client as a tool error.
func (s *DescribeService) OnAbort(f func(error)) {
	s.onAbort = f
}

// DescribeSource analyzes a buffer passed inline.
func (s *DescribeService) DescribeSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DescribeSourceInput,
) (*mcp.CallToolResult, DescribeOutput, error) {
	lang := s.fallback
	if input.Language != "" {
		l, err := engine.ParseLanguage(input.Language)
		if err != nil {
			return nil, DescribeOutput{}, err
		}
		lang = l
	}

	out, err := s.describe(ctx, lang, []byte(input.Source))
	if err != nil {
		return nil, DescribeOutput{}, err
	}
	return nil, out, nil
}

// DescribeFile reads a file from disk and analyzes it. The language comes
// from the input, then the file extension, then the service default.
func (s *DescribeService) DescribeFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DescribeFileInput,
) (*mcp.CallToolResult, DescribeOutput, error) {
	if input.Path == "" {
		return nil, DescribeOutput{}, fmt.Errorf("path is required")
	}

	lang, ok := engine.LanguageForPath(input.Path, s.extensions)
	if !ok {
		lang = s.fallback
	}
	if input.Language != "" {
		l, err := engine.ParseLanguage(input.Language)
		if err != nil {
			return nil, DescribeOutput{}, err
		}
		lang = l
	}

	src, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, DescribeOutput{}, fmt.Errorf("cannot read path: %w", err)
	}

	out, err := s.describe(ctx, lang, src)
	if err != nil {
		return nil, DescribeOutput{}, err
	}
	return nil, out, nil
}

// ListLanguages reports the grammars the analyzer supports.
func (s *DescribeService) ListLanguages(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListLanguagesInput,
) (*mcp.CallToolResult, ListLanguagesOutput, error) {
	var out ListLanguagesOutput
	for _, lang := range engine.Languages() {
		out.Languages = append(out.Languages, LanguageInfo{
			Name:       string(lang),
			Tool:       lang.ToolTag(),
			Extensions: engine.Extensions(lang),
		})
	}
	return nil, out, nil
}

func (s *DescribeService) describe(ctx context.Context, lang engine.Language, src []byte) (DescribeOutput, error) {
	var buf bytes.Buffer
	if err := s.run(ctx, lang, src, &buf); err != nil {
		return DescribeOutput{}, err
	}

	text := buf.String()
	doc, err := protocol.Decode(strings.NewReader(text))
	if err != nil {
		return DescribeOutput{}, fmt.Errorf("decode document: %w", err)
	}

	return DescribeOutput{
		Document: text,
		Failed:   hasError(doc.Messages),
		Messages: doc.Messages,
		Outline:  flatten(doc.Elements, 0, []OutlineEntry{}),
	}, nil
}

// run converts an engine abort into an error so that one bad buffer does not
// take the server down.
func (s *DescribeService) run(ctx context.Context, lang engine.Language, src []byte, w io.Writer) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var abort *diag.AbortError
		if e, ok := r.(error); ok && errors.As(e, &abort) {
			log.Printf("mcp: %v", abort)
			if s.onAbort != nil {
				s.onAbort(abort)
			}
			err = abort
			return
		}
		panic(r)
	}()
	return s.analyzer.Describe(ctx, lang, src, w)
}

func hasError(msgs []protocol.Message) bool {
	for _, m := range msgs {
		if m.Severity == diag.SeverityError.String() {
			return true
		}
	}
	return false
}
