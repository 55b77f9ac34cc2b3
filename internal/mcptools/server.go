package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewDescribeMCPServer creates an MCP server with the describe_source,
// describe_file and list_languages tools registered.
func NewDescribeMCPServer(svc *DescribeService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "parsedescribe",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_source",
		Description: "Parse a source buffer and return its diagnostics and structural outline. The document field holds the raw protocol text; messages and outline hold the decoded form.",
	}, svc.DescribeSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_file",
		Description: "Read a source file from disk and return its diagnostics and structural outline. The language is picked from the file extension unless given.",
	}, svc.DescribeFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_languages",
		Description: "List the languages that can be parsed, with their document header tag and file extensions.",
	}, svc.ListLanguages)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
