// Package mcp provides adapters between the Claude CLI and MCP servers,
// both external (stdio, HTTP, SSE) and in-process.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientAdapter wraps an MCP client session and implements
// ports.MCPServer. It proxies JSON-RPC messages from the Claude CLI to
// the connected server.
type ClientAdapter struct {
	name    string
	session *mcpsdk.ClientSession
}

// Verify interface compliance at compile time.
var _ ports.MCPServer = (*ClientAdapter)(nil)

// NewClientAdapter creates a new MCP client adapter.
// The session must already be connected.
func NewClientAdapter(
	name string,
	session *mcpsdk.ClientSession,
) *ClientAdapter {
	return &ClientAdapter{
		name:    name,
		session: session,
	}
}

// Name returns the server identifier.
func (a *ClientAdapter) Name() string {
	return a.name
}

// HandleMessage forwards a JSON-RPC message to the MCP server.
// The SDK session exposes typed methods rather than a generic request
// call, so the method field routes to the matching typed call.
func (a *ClientAdapter) HandleMessage(
	ctx context.Context,
	message []byte,
) ([]byte, error) {
	var req map[string]any
	if err := json.Unmarshal(message, &req); err != nil {
		return errorResponse(req, -32700, "Parse error")
	}

	method, _ := req["method"].(string)

	switch method {
	case "tools/list":
		result, err := a.session.ListTools(
			ctx,
			&mcpsdk.ListToolsParams{},
		)
		if err != nil {
			return errorResponse(req, -32603, err.Error())
		}

		return successResponse(req, result)

	case "tools/call":
		var params mcpsdk.CallToolParams
		if paramsData, ok := req["params"].(map[string]any); ok {
			paramsJSON, _ := json.Marshal(paramsData)
			_ = json.Unmarshal(paramsJSON, &params)
		}
		result, err := a.session.CallTool(ctx, &params)
		if err != nil {
			return errorResponse(req, -32603, err.Error())
		}

		return successResponse(req, result)

	default:
		return errorResponse(
			req,
			-32601,
			fmt.Sprintf("Method not found: %s", method),
		)
	}
}

// Close terminates the connection to the MCP server.
func (a *ClientAdapter) Close() error {
	if a.session != nil {
		return a.session.Close()
	}

	return nil
}

// successResponse builds a JSON-RPC success reply for req.
func successResponse(req map[string]any, result any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      req["id"],
		"result":  result,
	})
}

// errorResponse builds a JSON-RPC error reply for req.
func errorResponse(
	req map[string]any,
	code int,
	message string,
) ([]byte, error) {
	return json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      req["id"],
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
