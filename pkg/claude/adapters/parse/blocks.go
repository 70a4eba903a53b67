package parse

import (
	"fmt"

	"github.com/driftlock/claude-agent-go/pkg/claude/messages"
	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// parseContentBlocks parses an ordered array of content blocks.
// The result preserves source order and is non-nil even for an empty
// array.
func parseContentBlocks(
	contentArr []any,
) ([]messages.ContentBlock, error) {
	blocks := make([]messages.ContentBlock, 0, len(contentArr))

	for _, item := range contentArr {
		block, err := parseContentBlock(item)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// parseContentBlock dispatches a single content block on its type tag.
// An unrecognized block type fails the parse; silent drops could hide
// tool results.
func parseContentBlock(item any) (messages.ContentBlock, error) {
	block, ok := item.(map[string]any)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"content block must be an object",
			nil,
		)
	}

	blockType, ok := block["type"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMissingType,
			"content block missing type field",
			block,
		)
	}

	switch blockType {
	case "text":
		return parseTextBlock(block)
	case "thinking":
		return parseThinkingBlock(block)
	case "tool_use":
		return parseToolUseBlock(block)
	case "tool_result":
		return parseToolResultBlock(block)
	default:
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeUnknownType,
			fmt.Sprintf("unknown content block type: %s", blockType),
			block,
		)
	}
}

// parseTextBlock parses a text content block.
// An empty string is a valid, represented value.
func parseTextBlock(
	block map[string]any,
) (messages.ContentBlock, error) {
	text, ok := block["text"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"text block missing text field",
			block,
		)
	}

	return messages.TextBlock{Text: text}, nil
}

// parseThinkingBlock parses a thinking content block.
func parseThinkingBlock(
	block map[string]any,
) (messages.ContentBlock, error) {
	thinking, ok := block["thinking"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"thinking block missing thinking field",
			block,
		)
	}

	signature, _ := block["signature"].(string)

	return messages.ThinkingBlock{
		Thinking:  thinking,
		Signature: signature,
	}, nil
}

// parseToolUseBlock parses a tool_use content block.
// Input is always materialized as a map, even when the source had no
// input field or a null one.
func parseToolUseBlock(
	block map[string]any,
) (messages.ContentBlock, error) {
	id, ok := block["id"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"tool_use block missing id field",
			block,
		)
	}

	name, ok := block["name"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"tool_use block missing name field",
			block,
		)
	}

	input, ok := block["input"].(map[string]any)
	if !ok {
		input = make(map[string]any)
	}

	return messages.ToolUseBlock{
		ID:    id,
		Name:  name,
		Input: input,
	}, nil
}

// parseToolResultBlock parses a tool_result content block.
// Tool results link back to tool_use blocks via tool_use_id and can
// contain a plain string, structured content, or nothing at all.
func parseToolResultBlock(
	block map[string]any,
) (messages.ContentBlock, error) {
	toolUseID, ok := block["tool_use_id"].(string)
	if !ok {
		return nil, clauderrs.NewMessageParseError(
			clauderrs.ErrCodeMalformedRecord,
			"tool_result block missing tool_use_id field",
			block,
		)
	}

	return messages.ToolResultBlock{
		ToolUseID: toolUseID,
		Content:   parseToolResultContent(block["content"]),
		IsError:   getBoolPtr(block, "is_error"),
	}, nil
}

// parseToolResultContent parses the content field of a tool result.
// Best-effort structural parse: a string stays a string, an array is
// parsed element-wise with recognized text shapes becoming TextBlocks
// and anything else passing through as a RawBlock, an absent or
// unrecognized value becomes nil. This path never fails.
func parseToolResultContent(value any) messages.ToolResultContent {
	switch c := value.(type) {
	case string:
		return messages.ToolResultStringContent(c)
	case []any:
		return parseToolResultBlockList(c)
	default:
		return nil
	}
}

// parseToolResultBlockList parses nested tool-result content elements.
// Non-object elements are skipped.
func parseToolResultBlockList(
	contentArr []any,
) messages.ToolResultContent {
	blocks := make([]messages.ContentBlock, 0, len(contentArr))

	for _, item := range contentArr {
		blockMap, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if text, ok := blockMap["text"].(string); ok &&
			blockMap["type"] == "text" {
			blocks = append(blocks, messages.TextBlock{Text: text})

			continue
		}

		blocks = append(blocks, messages.RawBlock{Data: blockMap})
	}

	return messages.ToolResultBlockListContent(blocks)
}
