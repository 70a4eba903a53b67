package claude_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/driftlock/claude-agent-go/pkg/claude"
	"github.com/driftlock/claude-agent-go/pkg/claude/internal/testutil"
	"github.com/driftlock/claude-agent-go/pkg/claude/messages"
	"github.com/driftlock/claude-agent-go/pkg/claude/options"
	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

func TestQueryWithTransport(t *testing.T) {
	ctx := testContext(t)
	transport := testutil.NewFakeTransport()
	transport.QueueResponse(testutil.AssistantMessageJSON)
	transport.QueueResponse(testutil.ResultMessageJSON)

	msgCh, errCh := claude.QueryWithTransport(
		ctx, "what is 2+2?", &options.AgentOptions{}, transport,
	)

	got := collect(t, msgCh, errCh)
	if len(got) != 2 {
		t.Fatalf("received %d messages, want 2", len(got))
	}
	if _, ok := got[0].(*messages.AssistantMessage); !ok {
		t.Errorf("message 0 = %T", got[0])
	}
	result, ok := got[1].(*messages.ResultMessage)
	if !ok {
		t.Fatalf("message 1 = %T", got[1])
	}
	if result.Subtype != "success" {
		t.Errorf("Subtype = %q", result.Subtype)
	}

	// The transport is disposed once the stream ends.
	if transport.IsReady() {
		t.Error("transport still connected after query")
	}
	if transport.CloseCalls() != 1 {
		t.Errorf("CloseCalls() = %d, want 1", transport.CloseCalls())
	}

	history := transport.WriteHistory()
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 write, got %d", len(history))
	}
	var envelope map[string]any
	if err := json.Unmarshal([]byte(history[0]), &envelope); err != nil {
		t.Fatalf("written frame is not valid JSON: %v", err)
	}
	message, _ := envelope["message"].(map[string]any)
	if envelope["type"] != "user" || message["content"] != "what is 2+2?" {
		t.Errorf("envelope = %#v", envelope)
	}
}

func TestQueryConnectFailure(t *testing.T) {
	ctx := testContext(t)
	transport := testutil.NewFakeTransport()
	connErr := clauderrs.NewConnectionError(
		clauderrs.ErrCodeProcessSpawn, "spawn failed", nil,
	)
	transport.SimulateError(connErr)

	msgCh, errCh := claude.QueryWithTransport(
		ctx, "hello", &options.AgentOptions{}, transport,
	)

	for range msgCh {
		t.Error("no messages expected on connect failure")
	}

	var got error
	for err := range errCh {
		got = err
	}
	if !clauderrs.IsConnectionError(got) {
		t.Fatalf("expected ConnectionError, got %T: %v", got, got)
	}
}

func TestQueryInvalidOptions(t *testing.T) {
	ctx := testContext(t)
	toolName := "mcp__perm__approve"
	opts := &options.AgentOptions{
		CanUseTool: func(
			context.Context, string, map[string]any,
		) (*options.PermissionResult, error) {
			return nil, nil
		},
		PermissionPromptToolName: &toolName,
	}

	transport := testutil.NewFakeTransport()
	msgCh, errCh := claude.QueryWithTransport(ctx, "hello", opts, transport)

	for range msgCh {
		t.Error("no messages expected on invalid options")
	}

	var got error
	for err := range errCh {
		got = err
	}
	if got == nil {
		t.Fatal("expected validation error")
	}
	if transport.ConnectCalls() != 0 {
		t.Errorf("ConnectCalls() = %d, want 0", transport.ConnectCalls())
	}
}

func TestQueryForwardsDecodeErrors(t *testing.T) {
	ctx := testContext(t)
	transport := testutil.NewFakeTransport()
	transport.QueueResponse(testutil.AssistantMessageJSON)
	transport.QueueFinalError(clauderrs.NewJSONDecodeError(256))

	msgCh, errCh := claude.QueryWithTransport(
		ctx, "hello", &options.AgentOptions{}, transport,
	)

	var count int
	for range msgCh {
		count++
	}
	var got []error
	for err := range errCh {
		got = append(got, err)
	}

	// An oversized frame is reported, not swallowed, and does not end
	// the query.
	if count != 1 {
		t.Errorf("received %d messages, want 1", count)
	}
	if len(got) != 1 {
		t.Fatalf("received %d errors, want 1", len(got))
	}
	if !clauderrs.IsJSONDecodeError(got[0]) {
		t.Errorf("expected JSONDecodeError, got %T: %v", got[0], got[0])
	}
}

func TestQueryFinalProcessError(t *testing.T) {
	ctx := testContext(t)
	transport := testutil.NewFakeTransport()
	transport.QueueResponse(testutil.AssistantMessageJSON)
	transport.QueueFinalError(clauderrs.NewProcessError(2, "boom", nil))

	msgCh, errCh := claude.QueryWithTransport(
		ctx, "hello", &options.AgentOptions{}, transport,
	)

	var count int
	for range msgCh {
		count++
	}
	var got error
	for err := range errCh {
		got = err
	}

	if count != 1 {
		t.Errorf("received %d messages before the failure, want 1", count)
	}
	if !clauderrs.IsProcessError(got) {
		t.Fatalf("expected ProcessError, got %T: %v", got, got)
	}
}
