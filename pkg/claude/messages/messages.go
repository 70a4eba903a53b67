// Package messages provides domain models for Claude agent messages.
// This package contains all message types used in communication between the
// SDK and the Claude CLI, including user messages, assistant responses,
// system messages, results, and streaming events.
package messages

// Message is the root interface for all SDK messages.
// All message types implement this interface to provide type safety and
// enable polymorphic message handling. The variant set is closed: the
// parser rejects records whose type tag matches none of the variants.
type Message interface {
	// message is a marker method for type safety
	message()
}

// UserMessage represents a user's input to Claude.
type UserMessage struct {
	// Content is the user's message content.
	// Can be a simple string or structured content blocks.
	Content MessageContent `json:"content"`

	// ParentToolUseID links this message to a tool use in nested
	// conversations. Used when Claude spawns sub-agents via the Task tool.
	ParentToolUseID *string `json:"parent_tool_use_id,omitempty"`
}

func (*UserMessage) message() {}

// AssistantMessage represents a response from Claude.
// Assistant messages contain the model's response content, including text,
// thinking blocks, and tool use requests. Content preserves source
// ordering and may be empty but is never nil.
type AssistantMessage struct {
	// Content is always a list of ContentBlocks for assistant messages
	Content []ContentBlock `json:"content"`

	// Model identifies which model generated this response
	Model string `json:"model"`

	// ParentToolUseID links this response to a tool use if applicable
	ParentToolUseID *string `json:"parent_tool_use_id,omitempty"`
}

func (*AssistantMessage) message() {}

// SystemMessage represents a system-level event from the CLI.
// The Subtype field determines how to interpret the Data field.
// Subtypes include "init" and "compact_boundary".
type SystemMessage struct {
	Subtype string         `json:"subtype"`
	Data    map[string]any `json:"data"`
}

func (*SystemMessage) message() {}

// ResultMessage marks the end of one logical request/response turn.
// Optional fields are nil when absent from the wire record, never zero
// defaults. Numeric fields carry upstream values as-is, including
// negative durations; upstream data is trusted, not re-validated.
type ResultMessage struct {
	// Subtype identifies the result variant, e.g. "success",
	// "error_max_turns", "error_during_execution".
	Subtype string `json:"subtype"`

	// DurationMs is total execution time in milliseconds
	DurationMs int64 `json:"duration_ms"`

	// DurationAPIMs is API call time in milliseconds
	DurationAPIMs int64 `json:"duration_api_ms"`

	// IsError reports whether the turn failed
	IsError bool `json:"is_error"`

	// NumTurns is the count of conversation turns
	NumTurns int `json:"num_turns"`

	// SessionID identifies this conversation session
	SessionID string `json:"session_id"`

	// TotalCostUSD is the total API cost in US dollars, when reported
	TotalCostUSD *float64 `json:"total_cost_usd,omitempty"`

	// Usage contains token usage statistics, when reported
	Usage map[string]any `json:"usage,omitempty"`

	// Result contains the final response text, when present
	Result *string `json:"result,omitempty"`
}

func (*ResultMessage) message() {}

// StreamEvent represents a raw streaming event from the Anthropic API.
// Stream events are passed through without interpretation, allowing users
// to handle partial-message deltas with maximum flexibility.
type StreamEvent struct {
	// UUID uniquely identifies this stream event
	UUID string `json:"uuid"`

	// SessionID identifies the conversation session
	SessionID string `json:"session_id"`

	// Event contains the raw API stream event
	Event map[string]any `json:"event"`

	// ParentToolUseID links this event to a tool use if applicable
	ParentToolUseID *string `json:"parent_tool_use_id,omitempty"`
}

func (*StreamEvent) message() {}

// MessageContent is a union of string or content block list.
// User messages can carry content as either a simple string or a
// structured list of content blocks.
type MessageContent interface {
	messageContent()
}

// StringContent represents simple text content.
type StringContent string

func (StringContent) messageContent() {}

// BlockListContent represents structured content blocks.
type BlockListContent []ContentBlock

func (BlockListContent) messageContent() {}
