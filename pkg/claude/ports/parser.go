package ports

import "github.com/driftlock/claude-agent-go/pkg/claude/messages"

// MessageParser converts raw transport records to domain types.
// This port defines what the domain needs for message parsing, without
// coupling to specific JSON unmarshaling implementations.
//
// Parse returns typed errors for different failure modes: a missing type
// field, an unknown type tag, and malformed structure all fail the parse.
// No partially-constructed message is ever returned alongside an error.
type MessageParser interface {
	// Parse converts a raw record to a typed Message.
	Parse(raw map[string]any) (messages.Message, error)
}
