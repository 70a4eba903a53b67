// Package options defines the configuration surface for the Claude agent.
package options

import (
	"context"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// PermissionMode sets how tool permissions are handled.
type PermissionMode string

// Permission modes accepted by the CLI.
const (
	PermissionModeDefault           PermissionMode = "default"
	PermissionModeAcceptEdits       PermissionMode = "acceptEdits"
	PermissionModePlan              PermissionMode = "plan"
	PermissionModeBypassPermissions PermissionMode = "bypassPermissions"
)

// PermissionResult is the outcome of a CanUseTool callback.
type PermissionResult struct {
	// Behavior is "allow" or "deny".
	Behavior string

	// UpdatedInput optionally replaces the tool input when allowing.
	UpdatedInput map[string]any

	// Message explains a denial to the model.
	Message string
}

// CanUseToolFunc decides whether a tool invocation may proceed.
type CanUseToolFunc func(
	ctx context.Context,
	toolName string,
	input map[string]any,
) (*PermissionResult, error)

// AgentOptions configures the Claude agent.
// This combines domain and infrastructure configuration.
type AgentOptions struct {
	// === Domain Settings (affect business logic) ===

	// AllowedTools lists tools the agent can use
	AllowedTools []string

	// DisallowedTools lists tools the agent cannot use
	DisallowedTools []string

	// Model specifies the AI model (optional)
	Model *string

	// MaxTurns limits conversation turns (optional)
	MaxTurns *int

	// SystemPrompt sets the system prompt (optional)
	SystemPrompt *string

	// AppendSystemPrompt appends to the default system prompt (optional)
	AppendSystemPrompt *string

	// PermissionMode sets permission handling mode
	PermissionMode *PermissionMode

	// PermissionPromptToolName routes permission prompts to an MCP tool
	// (optional). Mutually exclusive with CanUseTool.
	PermissionPromptToolName *string

	// CanUseTool is invoked for tool permission decisions (optional).
	// Mutually exclusive with PermissionPromptToolName.
	CanUseTool CanUseToolFunc

	// === Session Management ===

	// ContinueConversation continues from the previous session
	ContinueConversation bool

	// Resume resumes from a specific session ID (optional)
	Resume *string

	// ForkSession creates a fork of the resumed session
	ForkSession bool

	// IncludePartialMessages includes stream events in the message flow
	IncludePartialMessages bool

	// === Infrastructure Settings (how to connect/execute) ===

	// Cwd sets the working directory (optional).
	// Must exist or Connect fails deterministically.
	Cwd *string

	// Settings specifies a settings file path (optional)
	Settings *string

	// AddDirs adds additional directories to the context
	AddDirs []string

	// Env sets extra environment variables
	Env map[string]string

	// MaxBufferSize overrides the 1 MiB decode ceiling (optional)
	MaxBufferSize *int

	// StderrCallback receives CLI diagnostic output line by line
	StderrCallback func(string)

	// ExtraArgs passes additional CLI arguments
	ExtraArgs map[string]*string

	// MCPServers configures MCP server connections
	MCPServers map[string]MCPServerConfig

	// === Internal Flags (set by domain services, not by users) ===

	// IsStreaming is true for Client, false for Query
	IsStreaming bool
}

// Validate checks option combinations that cannot be expressed in the
// type system. Called at connect time, before the transport is started.
func (o *AgentOptions) Validate() error {
	if o.CanUseTool != nil && o.PermissionPromptToolName != nil {
		return clauderrs.NewInvalidConfigError(
			"CanUseTool and PermissionPromptToolName are mutually exclusive",
		)
	}

	return nil
}
