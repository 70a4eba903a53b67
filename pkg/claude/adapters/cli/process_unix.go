//go:build unix

package cli

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup places the CLI in its own process group so
// teardown can terminate the CLI together with any descendants it
// spawned (MCP subprocesses, shells).
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree forcibly terminates the process group.
// Falls back to killing the single process when the group signal fails.
func killProcessTree(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}

	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}
