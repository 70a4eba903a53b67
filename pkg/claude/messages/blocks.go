package messages

// ContentBlock is a discriminated union for content blocks inside an
// assistant or user message.
type ContentBlock interface {
	contentBlock()
}

// TextBlock represents plain text content.
type TextBlock struct {
	Text string `json:"text"`
}

func (TextBlock) contentBlock() {}

// ThinkingBlock represents extended thinking content.
type ThinkingBlock struct {
	Thinking  string `json:"thinking"`
	Signature string `json:"signature,omitempty"`
}

func (ThinkingBlock) contentBlock() {}

// ToolUseBlock represents a tool invocation by Claude.
type ToolUseBlock struct {
	// ID uniquely identifies this tool use
	ID string `json:"id"`

	// Name is the tool being invoked
	Name string `json:"name"`

	// Input contains tool parameters. Always a materialized map, even
	// when the source had zero keys. Intentionally flexible as inputs
	// vary by tool.
	Input map[string]any `json:"input"`
}

func (ToolUseBlock) contentBlock() {}

// ToolResultBlock represents the result of a tool execution.
// Tool results link back to tool_use blocks via ToolUseID and can contain
// either simple string output or structured content.
type ToolResultBlock struct {
	ToolUseID string `json:"tool_use_id"`

	// Content is the tool's output. Nil when the source had no content
	// field.
	Content ToolResultContent `json:"content,omitempty"`

	// IsError indicates whether the tool execution failed
	IsError *bool `json:"is_error,omitempty"`
}

func (ToolResultBlock) contentBlock() {}

// ToolResultContent is a union of string or block list for tool results.
type ToolResultContent interface {
	toolResultContent()
}

// ToolResultStringContent is a plain text tool result.
type ToolResultStringContent string

func (ToolResultStringContent) toolResultContent() {}

// ToolResultBlockListContent is a list of nested content blocks.
// Text-shaped elements are parsed into TextBlocks; any other shape is
// preserved as a RawBlock to maintain forward compatibility with block
// shapes the SDK does not yet model.
type ToolResultBlockListContent []ContentBlock

func (ToolResultBlockListContent) toolResultContent() {}

// RawBlock carries a content block shape the SDK does not recognize.
// Only produced inside tool_result content, where unrecognized nested
// shapes pass through rather than failing the parse.
type RawBlock struct {
	Data map[string]any `json:"-"`
}

func (RawBlock) contentBlock() {}
