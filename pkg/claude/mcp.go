package claude

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer creates an in-process MCP server built on the official
// MCP go-sdk. Register tools with AddTool, then hand the server to the
// agent via options.InProcessServerConfig.
func NewMCPServer(name, version string) *mcpsdk.Server {
	return mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    name,
			Version: version,
		},
		nil,
	)
}

// AddTool registers a typed tool handler on an in-process MCP server.
// Input and output schemas are inferred from the handler's type
// parameters.
func AddTool[In, Out any](
	server *mcpsdk.Server,
	tool *mcpsdk.Tool,
	handler mcpsdk.ToolHandlerFor[In, Out],
) {
	mcpsdk.AddTool(server, tool, handler)
}
