// Package testutil provides test doubles and wire-record fixtures.
package testutil

// AssistantMessageJSON is a wire fixture for an assistant message.
var AssistantMessageJSON = map[string]any{
	"type": "assistant",
	"message": map[string]any{
		"model": "claude-sonnet-4-5",
		"content": []any{
			map[string]any{"type": "text", "text": "Hello"},
		},
	},
}

// UserMessageJSON is a wire fixture for a user message.
var UserMessageJSON = map[string]any{
	"type": "user",
	"message": map[string]any{
		"role":    "user",
		"content": "Hello Claude",
	},
}

// SystemMessageJSON is a wire fixture for a system init message.
var SystemMessageJSON = map[string]any{
	"type":    "system",
	"subtype": "init",
	"cwd":     "/tmp/project",
	"model":   "claude-sonnet-4-5",
	"tools":   []any{"Bash", "Read"},
}

// ResultMessageJSON is a wire fixture for a success result.
var ResultMessageJSON = map[string]any{
	"type":            "result",
	"subtype":         "success",
	"duration_ms":     float64(1234),
	"duration_api_ms": float64(1100),
	"is_error":        false,
	"num_turns":       float64(1),
	"session_id":      "test-session",
	"total_cost_usd":  0.042,
	"result":          "done",
}

// MinimalResultJSON is a result record with every optional field absent.
var MinimalResultJSON = map[string]any{
	"type":       "result",
	"subtype":    "success",
	"session_id": "test-session",
}

// StreamEventJSON is a wire fixture for a stream event.
var StreamEventJSON = map[string]any{
	"type":       "stream_event",
	"uuid":       "evt-123",
	"session_id": "test-session",
	"event": map[string]any{
		"type": "content_block_delta",
	},
}
