package cli

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

const installGuidance = "Claude Code not found. Install with:\n" +
	"  npm install -g @anthropic-ai/claude-code\n" +
	"\n" +
	"If already installed locally, try:\n" +
	`  export PATH="$HOME/node_modules/.bin:$PATH"` + "\n" +
	"\n" +
	"Or provide the path via AgentOptions.Env or PATH."

// findCLI locates the Claude CLI binary.
// Checks PATH first, then common installation locations. A miss yields a
// NotFoundError carrying installation guidance, since a missing binary is
// otherwise indistinguishable from a generic spawn failure.
func findCLI() (string, error) {
	if path, err := exec.LookPath(claudeBinaryName); err == nil {
		return path, nil
	}

	homeDir, _ := os.UserHomeDir()
	locations := []string{
		filepath.Join(homeDir, ".npm-global", "bin", claudeBinaryName),
		"/usr/local/bin/" + claudeBinaryName,
		filepath.Join(homeDir, ".local", "bin", claudeBinaryName),
		filepath.Join(homeDir, "node_modules", ".bin", claudeBinaryName),
		filepath.Join(homeDir, ".yarn", "bin", claudeBinaryName),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", clauderrs.NewNotFoundError(installGuidance)
}
