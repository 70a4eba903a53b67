package claude

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/driftlock/claude-agent-go/pkg/claude/adapters/cli"
	"github.com/driftlock/claude-agent-go/pkg/claude/adapters/parse"
	"github.com/driftlock/claude-agent-go/pkg/claude/messages"
	"github.com/driftlock/claude-agent-go/pkg/claude/options"
	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// Query runs a one-shot prompt: connect, send exactly one request, and
// stream messages until the CLI closes its output. The transport is
// disposed unconditionally on every exit path, including cancellation
// and errors. For multi-turn conversations use Client.
func Query(
	ctx context.Context,
	prompt string,
	opts *options.AgentOptions,
) (<-chan messages.Message, <-chan error) {
	if opts == nil {
		opts = &options.AgentOptions{}
	}
	opts.IsStreaming = false

	return QueryWithTransport(ctx, prompt, opts, cli.NewAdapter(opts))
}

// QueryWithTransport is Query over a caller-supplied transport.
// Intended for tests and embedding.
func QueryWithTransport(
	ctx context.Context,
	prompt string,
	opts *options.AgentOptions,
	transport ports.Transport,
) (<-chan messages.Message, <-chan error) {
	msgCh := make(chan messages.Message)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		defer close(errCh)
		defer func() { _ = transport.Close() }()

		if err := runQuery(ctx, prompt, opts, transport, msgCh, errCh); err != nil {
			select {
			case errCh <- err:
			case <-ctx.Done():
			}
		}
	}()

	return msgCh, errCh
}

// runQuery drives the connect, send, and drain phases of a one-shot
// query.
func runQuery(
	ctx context.Context,
	prompt string,
	opts *options.AgentOptions,
	transport ports.Transport,
	msgCh chan<- messages.Message,
	errCh chan<- error,
) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := transport.Connect(ctx); err != nil {
		return err
	}

	envelope := map[string]any{
		"type": "user",
		"message": map[string]any{
			"role":    "user",
			"content": prompt,
		},
		"parent_tool_use_id": nil,
		"session_id":         DefaultSessionID,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal user envelope: %w", err)
	}
	if err := transport.Write(ctx, string(data)); err != nil {
		return err
	}

	parser := parse.NewAdapter()
	frames, frameErrs := transport.ReadMessages(ctx)

	for frames != nil || frameErrs != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-frames:
			if !ok {
				frames = nil

				continue
			}

			parsed, err := parser.Parse(raw)
			if err != nil {
				return err
			}

			select {
			case msgCh <- parsed:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-frameErrs:
			if !ok {
				frameErrs = nil

				continue
			}
			if err == nil {
				continue
			}
			if clauderrs.IsJSONDecodeError(err) {
				// A decode-limit failure costs one frame, not the
				// whole query; report it and keep draining.
				select {
				case errCh <- err:
				case <-ctx.Done():
					return ctx.Err()
				}

				continue
			}

			return err
		}
	}

	return nil
}
