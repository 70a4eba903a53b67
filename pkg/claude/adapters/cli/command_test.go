package cli

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/driftlock/claude-agent-go/pkg/claude/options"
)

func strPtr(s string) *string { return &s }

// flagValue returns the argument following flag, or "" when absent.
func flagValue(cmd []string, flag string) (string, bool) {
	for i, arg := range cmd {
		if arg == flag && i+1 < len(cmd) {
			return cmd[i+1], true
		}
	}

	return "", false
}

func TestBuildCommandBase(t *testing.T) {
	a := NewAdapter(&options.AgentOptions{})

	cmd, err := a.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand() error = %v", err)
	}

	if got, ok := flagValue(cmd, "--output-format"); !ok || got != "stream-json" {
		t.Errorf("missing --output-format stream-json in %v", cmd)
	}
	if !slices.Contains(cmd, "--verbose") {
		t.Errorf("missing --verbose in %v", cmd)
	}
	if slices.Contains(cmd, "--input-format") {
		t.Errorf("one-shot command should not carry --input-format: %v", cmd)
	}
}

func TestBuildCommandStreamingInput(t *testing.T) {
	a := NewAdapter(&options.AgentOptions{IsStreaming: true})

	cmd, err := a.BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand() error = %v", err)
	}

	if got, ok := flagValue(cmd, "--input-format"); !ok || got != "stream-json" {
		t.Errorf("missing --input-format stream-json in %v", cmd)
	}
}

func TestBuildCommandOptionFlags(t *testing.T) {
	maxTurns := 3
	mode := options.PermissionModeAcceptEdits
	opts := &options.AgentOptions{
		SystemPrompt:    strPtr("be terse"),
		Model:           strPtr("claude-sonnet-4-5"),
		MaxTurns:        &maxTurns,
		PermissionMode:  &mode,
		AllowedTools:    []string{"Read", "Grep"},
		DisallowedTools: []string{"Bash"},
		Resume:          strPtr("sess-1"),
		ForkSession:     true,
		AddDirs:         []string{"/a", "/b"},
	}

	cmd, err := NewAdapter(opts).BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand() error = %v", err)
	}

	wantValues := map[string]string{
		"--system-prompt":   "be terse",
		"--model":           "claude-sonnet-4-5",
		"--max-turns":       "3",
		"--permission-mode": "acceptEdits",
		"--allowedTools":    "Read,Grep",
		"--disallowedTools": "Bash",
		"--resume":          "sess-1",
	}
	for flag, want := range wantValues {
		got, ok := flagValue(cmd, flag)
		if !ok {
			t.Errorf("missing %s in %v", flag, cmd)

			continue
		}
		if got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}

	if !slices.Contains(cmd, "--fork-session") {
		t.Errorf("missing --fork-session in %v", cmd)
	}

	var dirs []string
	for i, arg := range cmd {
		if arg == "--add-dir" && i+1 < len(cmd) {
			dirs = append(dirs, cmd[i+1])
		}
	}
	if !slices.Equal(dirs, []string{"/a", "/b"}) {
		t.Errorf("--add-dir values = %v", dirs)
	}
}

func TestBuildCommandExtraArgs(t *testing.T) {
	opts := &options.AgentOptions{
		ExtraArgs: map[string]*string{
			"debug-to-stderr": nil,
			"fallback-model":  strPtr("claude-haiku-4-5"),
		},
	}

	cmd, err := NewAdapter(opts).BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand() error = %v", err)
	}

	if !slices.Contains(cmd, "--debug-to-stderr") {
		t.Errorf("missing boolean extra flag in %v", cmd)
	}
	if got, ok := flagValue(cmd, "--fallback-model"); !ok || got != "claude-haiku-4-5" {
		t.Errorf("missing valued extra flag in %v", cmd)
	}
}

func TestBuildCommandMCPConfig(t *testing.T) {
	opts := &options.AgentOptions{
		MCPServers: map[string]options.MCPServerConfig{
			"files": &options.StdioServerConfig{
				Name:    "files",
				Command: "mcp-files",
				Args:    []string{"--root", "/srv"},
			},
			"search": &options.HTTPServerConfig{
				Name: "search",
				URL:  "https://mcp.example.com",
			},
		},
	}

	cmd, err := NewAdapter(opts).BuildCommand()
	if err != nil {
		t.Fatalf("BuildCommand() error = %v", err)
	}

	raw, ok := flagValue(cmd, "--mcp-config")
	if !ok {
		t.Fatalf("missing --mcp-config in %v", cmd)
	}

	var cfg struct {
		MCPServers map[string]map[string]any `json:"mcpServers"`
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("--mcp-config is not valid JSON: %v", err)
	}

	files := cfg.MCPServers["files"]
	if files["type"] != "stdio" || files["command"] != "mcp-files" {
		t.Errorf("files config = %#v", files)
	}
	search := cfg.MCPServers["search"]
	if search["type"] != "http" || search["url"] != "https://mcp.example.com" {
		t.Errorf("search config = %#v", search)
	}
}
