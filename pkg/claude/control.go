package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// controlState tracks outbound control requests awaiting a response
// from the CLI.
type controlState struct {
	pending map[string]chan map[string]any
	mu      sync.Mutex
}

func newControlState() *controlState {
	return &controlState{
		pending: make(map[string]chan map[string]any),
	}
}

// register creates a response slot for a new outbound request.
func (s *controlState) register(requestID string) <-chan map[string]any {
	ch := make(chan map[string]any, 1)

	s.mu.Lock()
	s.pending[requestID] = ch
	s.mu.Unlock()

	return ch
}

// release drops a response slot, e.g. after a timeout.
func (s *controlState) release(requestID string) {
	s.mu.Lock()
	delete(s.pending, requestID)
	s.mu.Unlock()
}

// routeResponse delivers an inbound control_response to whoever is
// waiting on its request id. Unmatched responses are dropped.
func (s *controlState) routeResponse(raw map[string]any) {
	response, _ := raw["response"].(map[string]any)
	requestID, _ := response["request_id"].(string)
	if requestID == "" {
		return
	}

	s.mu.Lock()
	ch, ok := s.pending[requestID]
	if ok {
		delete(s.pending, requestID)
	}
	s.mu.Unlock()

	if ok {
		ch <- response
	}
}

// newRequestID mints an id for an outbound control request.
func newRequestID() string {
	return "req_" + uuid.NewString()
}

// Interrupt asks the CLI to stop the in-flight turn.
// It blocks until the CLI acknowledges the request or ctx is done.
func (c *Client) Interrupt(ctx context.Context) error {
	if err := c.requireConnected(); err != nil {
		return err
	}

	requestID := newRequestID()
	respCh := c.control.register(requestID)
	defer c.control.release(requestID)

	request := map[string]any{
		"type":       "control_request",
		"request_id": requestID,
		"request":    map[string]any{"subtype": "interrupt"},
	}
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal control request: %w", err)
	}
	if err := c.transport.Write(ctx, string(data)); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case response := <-respCh:
		if subtype, _ := response["subtype"].(string); subtype == "error" {
			errText, _ := response["error"].(string)

			return clauderrs.NewMessageParseError(
				clauderrs.ErrCodeMalformedRecord,
				fmt.Sprintf("interrupt rejected: %s", errText),
				response,
			)
		}

		return nil
	}
}

// handleControlRequest serves one inbound control_request from the CLI
// and writes the matching control_response. Handler failures are
// reported to the CLI as error responses, never surfaced to the
// caller's message stream.
func (c *Client) handleControlRequest(
	ctx context.Context,
	raw map[string]any,
) {
	requestID, _ := raw["request_id"].(string)
	request, _ := raw["request"].(map[string]any)
	subtype, _ := request["subtype"].(string)

	var (
		result map[string]any
		err    error
	)

	switch subtype {
	case "can_use_tool":
		result, err = c.handleCanUseTool(ctx, request)
	case "mcp_message":
		result, err = c.handleMCPMessage(ctx, request)
	default:
		err = fmt.Errorf("unsupported control request: %s", subtype)
	}

	response := map[string]any{
		"subtype":    "success",
		"request_id": requestID,
		"response":   result,
	}
	if err != nil {
		response = map[string]any{
			"subtype":    "error",
			"request_id": requestID,
			"error":      err.Error(),
		}
	}

	data, marshalErr := json.Marshal(map[string]any{
		"type":     "control_response",
		"response": response,
	})
	if marshalErr != nil {
		return
	}

	_ = c.transport.Write(ctx, string(data))
}

// handleCanUseTool runs the configured permission callback.
func (c *Client) handleCanUseTool(
	ctx context.Context,
	request map[string]any,
) (map[string]any, error) {
	if c.opts.CanUseTool == nil {
		return nil, fmt.Errorf("no CanUseTool callback configured")
	}

	toolName, _ := request["tool_name"].(string)
	input, _ := request["input"].(map[string]any)

	result, err := c.opts.CanUseTool(ctx, toolName, input)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("permission callback returned no result")
	}

	if result.Behavior == "allow" {
		response := map[string]any{"behavior": "allow"}
		if result.UpdatedInput != nil {
			response["updatedInput"] = result.UpdatedInput
		}

		return response, nil
	}

	return map[string]any{
		"behavior": "deny",
		"message":  result.Message,
	}, nil
}

// handleMCPMessage routes a JSON-RPC message to a connected in-process
// or external MCP server by name.
func (c *Client) handleMCPMessage(
	ctx context.Context,
	request map[string]any,
) (map[string]any, error) {
	serverName, _ := request["server_name"].(string)

	c.mu.Lock()
	server, ok := c.mcpServers[serverName]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown MCP server: %s", serverName)
	}

	message, err := json.Marshal(request["message"])
	if err != nil {
		return nil, fmt.Errorf("marshal MCP message: %w", err)
	}

	reply, err := server.HandleMessage(ctx, message)
	if err != nil {
		return nil, err
	}

	var mcpResponse map[string]any
	if len(reply) > 0 {
		if err := json.Unmarshal(reply, &mcpResponse); err != nil {
			return nil, fmt.Errorf("decode MCP response: %w", err)
		}
	}

	return map[string]any{"mcp_response": mcpResponse}, nil
}
