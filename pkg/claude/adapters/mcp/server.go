package mcp

import (
	"context"
	"encoding/json"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
)

// ServerAdapter wraps an in-process mcp-go server instance and
// implements ports.MCPServer by direct invocation, without IPC.
type ServerAdapter struct {
	name     string
	instance *mcpserver.MCPServer
}

// Verify interface compliance at compile time.
var _ ports.MCPServer = (*ServerAdapter)(nil)

// NewServerAdapter creates an adapter over a user-supplied mcp-go
// server instance.
func NewServerAdapter(
	name string,
	instance *mcpserver.MCPServer,
) *ServerAdapter {
	return &ServerAdapter{
		name:     name,
		instance: instance,
	}
}

// Name returns the server identifier.
func (a *ServerAdapter) Name() string {
	return a.name
}

// HandleMessage dispatches a raw JSON-RPC message to the in-process
// server. A nil response (notification) marshals to an empty reply.
func (a *ServerAdapter) HandleMessage(
	ctx context.Context,
	message []byte,
) ([]byte, error) {
	response := a.instance.HandleMessage(ctx, json.RawMessage(message))
	if response == nil {
		return nil, nil
	}

	return json.Marshal(response)
}

// Close is a no-op: in-process servers have no connection to release.
func (a *ServerAdapter) Close() error {
	return nil
}
