//go:build !unix

package cli

import "os/exec"

func configureProcessGroup(_ *exec.Cmd) {}

// killProcessTree forcibly terminates the process.
// Descendant cleanup is delegated to the OS on non-unix platforms.
func killProcessTree(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()
}
