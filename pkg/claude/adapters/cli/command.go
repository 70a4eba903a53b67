package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/driftlock/claude-agent-go/pkg/claude/options"
)

// BuildCommand constructs the CLI argument list from the configured
// options. The list is deterministic for a given option set.
// Exported for testing purposes.
func (a *Adapter) BuildCommand() ([]string, error) {
	cmd := []string{
		a.cliPath,
		"--output-format",
		"stream-json",
		"--verbose",
	}

	if a.options.IsStreaming {
		cmd = append(cmd, "--input-format", "stream-json")
	}

	a.addSystemPromptArgs(&cmd)
	a.addToolArgs(&cmd)
	a.addModelArgs(&cmd)
	a.addPermissionArgs(&cmd)
	a.addSessionArgs(&cmd)
	a.addSettingArgs(&cmd)
	a.addDirectoryArgs(&cmd)

	if err := a.addMCPArgs(&cmd); err != nil {
		return nil, err
	}

	a.addExtraArgs(&cmd)

	return cmd, nil
}

// addSystemPromptArgs handles system prompt configuration.
func (a *Adapter) addSystemPromptArgs(cmd *[]string) {
	if a.options.SystemPrompt != nil {
		*cmd = append(*cmd, "--system-prompt", *a.options.SystemPrompt)
	}
	if a.options.AppendSystemPrompt != nil {
		*cmd = append(
			*cmd,
			"--append-system-prompt",
			*a.options.AppendSystemPrompt,
		)
	}
}

// addToolArgs configures tool access control.
// Both allow and deny lists can be specified simultaneously, with the
// deny list taking precedence for overlapping tools.
func (a *Adapter) addToolArgs(cmd *[]string) {
	if len(a.options.AllowedTools) > 0 {
		*cmd = append(
			*cmd,
			"--allowedTools",
			strings.Join(a.options.AllowedTools, ","),
		)
	}
	if len(a.options.DisallowedTools) > 0 {
		*cmd = append(
			*cmd,
			"--disallowedTools",
			strings.Join(a.options.DisallowedTools, ","),
		)
	}
}

// addModelArgs configures model selection and conversation limits.
func (a *Adapter) addModelArgs(cmd *[]string) {
	if a.options.Model != nil {
		*cmd = append(*cmd, "--model", *a.options.Model)
	}
	if a.options.MaxTurns != nil {
		*cmd = append(
			*cmd,
			"--max-turns",
			fmt.Sprintf("%d", *a.options.MaxTurns),
		)
	}
}

// addPermissionArgs configures permission handling for tool usage.
// The permission prompt tool enables custom authorization flows.
func (a *Adapter) addPermissionArgs(cmd *[]string) {
	if a.options.PermissionMode != nil {
		*cmd = append(
			*cmd,
			"--permission-mode",
			string(*a.options.PermissionMode),
		)
	}
	if a.options.PermissionPromptToolName != nil {
		*cmd = append(
			*cmd,
			"--permission-prompt-tool",
			*a.options.PermissionPromptToolName,
		)
	}
}

// addSessionArgs manages conversation continuity.
// Resume picks up a specific session; fork creates a branch of it.
func (a *Adapter) addSessionArgs(cmd *[]string) {
	if a.options.ContinueConversation {
		*cmd = append(*cmd, "--continue")
	}
	if a.options.Resume != nil {
		*cmd = append(*cmd, "--resume", *a.options.Resume)
	}
	if a.options.ForkSession {
		*cmd = append(*cmd, "--fork-session")
	}
	if a.options.IncludePartialMessages {
		*cmd = append(*cmd, "--include-partial-messages")
	}
}

// addSettingArgs configures the settings file location.
func (a *Adapter) addSettingArgs(cmd *[]string) {
	if a.options.Settings != nil {
		*cmd = append(*cmd, "--settings", *a.options.Settings)
	}
}

// addDirectoryArgs adds additional directories to the agent's context.
// Each directory is passed separately to preserve ordering.
func (a *Adapter) addDirectoryArgs(cmd *[]string) {
	for _, dir := range a.options.AddDirs {
		*cmd = append(*cmd, "--add-dir", dir)
	}
}

// addMCPArgs serializes MCP server configuration to JSON.
// External servers carry their full connection config; in-process
// servers are declared by name only and receive their traffic over the
// control protocol.
func (a *Adapter) addMCPArgs(cmd *[]string) error {
	if len(a.options.MCPServers) == 0 {
		return nil
	}

	servers := make(map[string]any, len(a.options.MCPServers))
	for name, cfg := range a.options.MCPServers {
		servers[name] = mcpServerConfigJSON(cfg)
	}

	mcpConfig := map[string]any{"mcpServers": servers}
	jsonBytes, err := json.Marshal(mcpConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal MCP config: %w", err)
	}
	*cmd = append(*cmd, "--mcp-config", string(jsonBytes))

	return nil
}

// mcpServerConfigJSON converts one server config to its wire form.
func mcpServerConfigJSON(cfg options.MCPServerConfig) map[string]any {
	switch c := cfg.(type) {
	case *options.StdioServerConfig:
		entry := map[string]any{
			"type":    "stdio",
			"command": c.Command,
		}
		if len(c.Args) > 0 {
			entry["args"] = c.Args
		}
		if len(c.Env) > 0 {
			entry["env"] = c.Env
		}

		return entry
	case *options.SSEServerConfig:
		return map[string]any{"type": "sse", "url": c.URL}
	case *options.HTTPServerConfig:
		return map[string]any{"type": "http", "url": c.URL}
	default:
		// In-process servers (SDK and official go-sdk instances) are
		// declared by type only; their messages flow over the control
		// protocol rather than a separate transport.
		return map[string]any{"type": "sdk", "name": cfg.GetName()}
	}
}

// addExtraArgs appends user-provided flags for extensibility.
// Supports both boolean flags (nil value) and value flags.
func (a *Adapter) addExtraArgs(cmd *[]string) {
	for flag, value := range a.options.ExtraArgs {
		if value == nil {
			*cmd = append(*cmd, "--"+flag)
		} else {
			*cmd = append(*cmd, "--"+flag, *value)
		}
	}
}
