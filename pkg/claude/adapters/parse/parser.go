// Package parse implements the message parsing adapter.
//
// This adapter implements the MessageParser port: it dispatches raw
// untyped records on their required type tag into the closed set of
// typed message variants. Parsing never fails for merely empty values
// (empty content, empty block arrays, empty tool input); it fails only
// for structurally unrecognized type tags, which propagate rather than
// being dropped since a silently skipped message could hide tool
// results.
package parse

import (
	"fmt"

	"github.com/driftlock/claude-agent-go/pkg/claude/messages"
	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// Adapter implements ports.MessageParser.
type Adapter struct{}

// Verify interface compliance at compile time.
var _ ports.MessageParser = (*Adapter)(nil)

// NewAdapter creates a new message parsing adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Parse implements ports.MessageParser.
func (a *Adapter) Parse(raw map[string]any) (messages.Message, error) {
	msgType, ok := raw["type"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMissingType,
			"message missing type field",
			raw,
		)
	}

	switch msgType {
	case "user":
		return parseUserMessage(raw)
	case "assistant":
		return parseAssistantMessage(raw)
	case "system":
		return parseSystemMessage(raw)
	case "result":
		return parseResultMessage(raw)
	case "stream_event":
		return parseStreamEvent(raw)
	default:
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeUnknownType,
			fmt.Sprintf("unknown message type: %s", msgType),
			raw,
		)
	}
}

// parseUserMessage builds a UserMessage from message.content.
// Content can be a plain string or an array of content blocks.
func parseUserMessage(raw map[string]any) (messages.Message, error) {
	msg := getMap(raw, "message")

	var content messages.MessageContent
	switch c := msg["content"].(type) {
	case string:
		content = messages.StringContent(c)
	case []any:
		blocks, err := parseContentBlocks(c)
		if err != nil {
			return nil, fmt.Errorf(
				"parse user message content: %w", err,
			)
		}
		content = messages.BlockListContent(blocks)
	default:
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"user message content must be string or array",
			raw,
		)
	}

	return &messages.UserMessage{
		Content:         content,
		ParentToolUseID: getStringPtr(raw, "parent_tool_use_id"),
	}, nil
}

// parseAssistantMessage builds an AssistantMessage.
// message.content must be an ordered array; each element dispatches on
// its own type tag, and an unrecognized element fails the whole message.
func parseAssistantMessage(raw map[string]any) (messages.Message, error) {
	msg := getMap(raw, "message")

	contentArr, ok := msg["content"].([]any)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"assistant message content must be an array",
			raw,
		)
	}

	blocks, err := parseContentBlocks(contentArr)
	if err != nil {
		return nil, fmt.Errorf(
			"parse assistant message content: %w", err,
		)
	}

	model, _ := msg["model"].(string)

	return &messages.AssistantMessage{
		Content:         blocks,
		Model:           model,
		ParentToolUseID: getStringPtr(raw, "parent_tool_use_id"),
	}, nil
}

// parseSystemMessage builds a SystemMessage from subtype and the record
// itself. The CLI places init fields at the top level of the record, so
// Data carries the full record for the caller to interpret by subtype.
func parseSystemMessage(raw map[string]any) (messages.Message, error) {
	subtype, ok := raw["subtype"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"system message missing subtype field",
			raw,
		)
	}

	return &messages.SystemMessage{
		Subtype: subtype,
		Data:    raw,
	}, nil
}

// parseResultMessage builds a ResultMessage.
// Numeric fields map 1:1 by name; absent optional fields stay nil, never
// a default numeric value. Values are trusted as-is, including negative
// durations.
func parseResultMessage(raw map[string]any) (messages.Message, error) {
	subtype, ok := raw["subtype"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"result message missing subtype field",
			raw,
		)
	}

	isError, _ := raw["is_error"].(bool)

	return &messages.ResultMessage{
		Subtype:       subtype,
		DurationMs:    getInt64(raw, "duration_ms"),
		DurationAPIMs: getInt64(raw, "duration_api_ms"),
		IsError:       isError,
		NumTurns:      int(getInt64(raw, "num_turns")),
		SessionID:     getString(raw, "session_id"),
		TotalCostUSD:  getFloat64Ptr(raw, "total_cost_usd"),
		Usage:         getMapOrNil(raw, "usage"),
		Result:        getStringPtr(raw, "result"),
	}, nil
}

// parseStreamEvent builds a StreamEvent carrying the raw API event.
func parseStreamEvent(raw map[string]any) (messages.Message, error) {
	return &messages.StreamEvent{
		UUID:            getString(raw, "uuid"),
		SessionID:       getString(raw, "session_id"),
		Event:           getMap(raw, "event"),
		ParentToolUseID: getStringPtr(raw, "parent_tool_use_id"),
	}, nil
}
