// Package claude provides the public API for the Claude agent SDK.
// This is the main entry point for SDK users.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/driftlock/claude-agent-go/pkg/claude/adapters/cli"
	"github.com/driftlock/claude-agent-go/pkg/claude/adapters/parse"
	"github.com/driftlock/claude-agent-go/pkg/claude/messages"
	"github.com/driftlock/claude-agent-go/pkg/claude/options"
	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// DefaultSessionID identifies the session used by Send when the caller
// does not name one.
const DefaultSessionID = "default"

// clientState tracks the session lifecycle.
// The only externally visible states are unconnected, connected, and
// disposed; "awaiting response" is a transient condition inside a
// receive call, not a persisted state.
type clientState int

const (
	stateUnconnected clientState = iota
	stateConnected
	stateDisposed
)

// Client provides an interactive streaming session with the Claude CLI.
// A single logical caller drives the session, alternating Send and
// receive cycles as the turn-based protocol expects. Concurrent Send
// calls are serialized only at the byte-stream level; logical envelope
// ordering across concurrent senders is the caller's responsibility.
type Client struct {
	opts       *options.AgentOptions
	transport  ports.Transport
	parser     ports.MessageParser
	mcpServers map[string]ports.MCPServer
	control    *controlState

	state clientState
	mu    sync.Mutex

	// frames carries SDK messages from the router to receive calls.
	frames    chan map[string]any
	frameErrs chan error

	routerCancel context.CancelFunc
	closeOnce    sync.Once
}

// NewClient creates a new Claude client with the given options.
// This is the primary constructor for SDK users.
func NewClient(opts *options.AgentOptions) *Client {
	if opts == nil {
		opts = &options.AgentOptions{}
	}
	opts.IsStreaming = true

	return newClient(opts, cli.NewAdapter(opts))
}

// NewClientWithTransport creates a client over a caller-supplied
// transport. Intended for tests and embedding.
func NewClientWithTransport(
	opts *options.AgentOptions,
	transport ports.Transport,
) *Client {
	if opts == nil {
		opts = &options.AgentOptions{}
	}
	opts.IsStreaming = true

	return newClient(opts, transport)
}

func newClient(opts *options.AgentOptions, transport ports.Transport) *Client {
	return &Client{
		opts:      opts,
		transport: transport,
		parser:    parse.NewAdapter(),
		control:   newControlState(),
		frames:    make(chan map[string]any),
		frameErrs: make(chan error, 8),
	}
}

// Connect establishes the connection to the Claude CLI.
// It is idempotent and re-entrant-safe: repeated or concurrent calls
// while connected are no-ops and never double-start the transport.
// Option combinations are validated here, before the process spawns.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateConnected:
		return nil
	case stateDisposed:
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeTransportClosed,
			"client already closed",
			nil,
		)
	case stateUnconnected:
	}

	if err := c.opts.Validate(); err != nil {
		return err
	}

	if err := c.transport.Connect(ctx); err != nil {
		return err
	}

	servers, err := initializeMCPServers(ctx, c.opts.MCPServers)
	if err != nil {
		_ = c.transport.Close()

		return err
	}
	c.mcpServers = servers

	routerCtx, cancel := context.WithCancel(context.Background())
	c.routerCancel = cancel
	go c.runRouter(routerCtx)

	c.state = stateConnected

	return nil
}

// Send writes one user prompt to the default session.
// Each call produces exactly one write on the transport.
func (c *Client) Send(ctx context.Context, prompt string) error {
	return c.SendToSession(ctx, prompt, DefaultSessionID)
}

// SendToSession writes one user prompt tagged with sessionID.
func (c *Client) SendToSession(
	ctx context.Context,
	prompt string,
	sessionID string,
) error {
	if err := c.requireConnected(); err != nil {
		return err
	}

	envelope := map[string]any{
		"type": "user",
		"message": map[string]any{
			"role":    "user",
			"content": prompt,
		},
		"parent_tool_use_id": nil,
		"session_id":         sessionID,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal user envelope: %w", err)
	}

	return c.transport.Write(ctx, string(data))
}

// ReceiveMessages streams typed messages for the lifetime of the
// connection. The sequence is lazy and single-pass; cancelling ctx
// stops it promptly. Both channels close when the stream ends.
func (c *Client) ReceiveMessages(
	ctx context.Context,
) (<-chan messages.Message, <-chan error) {
	return c.receive(ctx, false)
}

// ReceiveResponse streams messages for exactly one logical turn: it
// stops after yielding the first ResultMessage (inclusive). Messages
// queued behind that boundary stay unread for the next cycle.
func (c *Client) ReceiveResponse(
	ctx context.Context,
) (<-chan messages.Message, <-chan error) {
	return c.receive(ctx, true)
}

func (c *Client) receive(
	ctx context.Context,
	stopAtResult bool,
) (<-chan messages.Message, <-chan error) {
	msgOut := make(chan messages.Message)
	errOut := make(chan error, 1)

	if err := c.requireConnected(); err != nil {
		close(msgOut)
		errOut <- err
		close(errOut)

		return msgOut, errOut
	}

	go c.receiveLoop(ctx, msgOut, errOut, stopAtResult)

	return msgOut, errOut
}

// receiveLoop parses frames into typed messages, one per frame.
// Decode-limit errors are reported and the loop continues; everything
// else (parse failures, transport faults, process exit) terminates the
// sequence after being reported.
func (c *Client) receiveLoop(
	ctx context.Context,
	msgOut chan<- messages.Message,
	errOut chan<- error,
	stopAtResult bool,
) {
	defer close(msgOut)
	defer close(errOut)

	for {
		select {
		case <-ctx.Done():
			return

		case raw, ok := <-c.frames:
			if !ok {
				// The router closes frameErrs before frames, so
				// anything still buffered there is the stream's
				// final word. Flush it before ending.
				c.flushFrameErrs(ctx, errOut)

				return
			}

			parsed, err := c.parser.Parse(raw)
			if err != nil {
				errOut <- err

				return
			}

			select {
			case msgOut <- parsed:
			case <-ctx.Done():
				return
			}

			if _, isResult := parsed.(*messages.ResultMessage); isResult && stopAtResult {
				return
			}

		case err, ok := <-c.frameErrs:
			if !ok {
				return
			}
			if err == nil {
				continue
			}

			errOut <- err
			if clauderrs.IsJSONDecodeError(err) {
				continue
			}

			return
		}
	}
}

// flushFrameErrs forwards errors buffered behind the end of the frame
// stream, typically a non-zero exit status.
func (c *Client) flushFrameErrs(ctx context.Context, errOut chan<- error) {
	for err := range c.frameErrs {
		if err == nil {
			continue
		}

		select {
		case errOut <- err:
		case <-ctx.Done():
			return
		}
	}
}

// runRouter partitions transport frames: control traffic is handled
// internally, everything else flows to the caller's message stream.
func (c *Client) runRouter(ctx context.Context) {
	defer close(c.frames)
	defer close(c.frameErrs)

	msgCh, errCh := c.transport.ReadMessages(ctx)

	for msgCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return

		case raw, ok := <-msgCh:
			if !ok {
				msgCh = nil

				continue
			}
			c.dispatchFrame(ctx, raw)

		case err, ok := <-errCh:
			if !ok {
				errCh = nil

				continue
			}
			if err == nil {
				continue
			}

			select {
			case c.frameErrs <- err:
			case <-ctx.Done():
				return
			}
		}
	}
}

// dispatchFrame routes one decoded frame by type tag.
func (c *Client) dispatchFrame(ctx context.Context, raw map[string]any) {
	switch raw["type"] {
	case "control_response":
		c.control.routeResponse(raw)
	case "control_request":
		go c.handleControlRequest(ctx, raw)
	case "control_cancel_request":
		// No in-flight cancellable work is tracked.
	default:
		select {
		case c.frames <- raw:
		case <-ctx.Done():
		}
	}
}

func (c *Client) requireConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateConnected {
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeNotConnected,
			"client not connected",
			nil,
		)
	}

	return nil
}

// Close tears the session down: stops the router, closes MCP server
// connections, and disposes the transport. Idempotent and safe to call
// concurrently, from a different goroutine than Connect, or without
// ever having connected; it never returns an error after the first
// call and swallows teardown failures so release always completes.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = stateDisposed
		cancel := c.routerCancel
		servers := c.mcpServers
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		for _, server := range servers {
			_ = server.Close()
		}
		_ = c.transport.Close()
	})

	return nil
}
