package ports

import "context"

// MCPServer defines what the domain needs from an MCP server connection.
// Implementations proxy JSON-RPC messages between the Claude CLI and an
// external or in-process MCP server.
type MCPServer interface {
	// Name returns the server identifier used for routing.
	Name() string

	// HandleMessage forwards a raw JSON-RPC message and returns the
	// raw JSON-RPC response.
	HandleMessage(ctx context.Context, message []byte) ([]byte, error)

	// Close terminates the server connection.
	Close() error
}
