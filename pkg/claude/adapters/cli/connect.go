package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// Connect implements ports.Transport.
// It is idempotent: a second call while connected is a no-op and never
// spawns a second process.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready {
		return nil
	}
	if a.closed {
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeTransportClosed,
			"transport already closed",
			nil,
		)
	}
	if a.fatalErr != nil {
		return a.fatalErr
	}

	if err := a.checkWorkingDirectory(); err != nil {
		a.fatalErr = err

		return err
	}

	if err := a.setupCLIAndCommand(ctx); err != nil {
		a.fatalErr = err

		return err
	}

	if err := a.setupPipes(); err != nil {
		a.fatalErr = clauderrs.NewConnectionError(
			clauderrs.ErrCodeProcessSpawn,
			"pipe setup failed",
			err,
		)

		return a.fatalErr
	}

	if err := a.startProcess(); err != nil {
		a.fatalErr = err

		return err
	}

	a.configureStdinMode()
	a.ready = true

	return nil
}

// checkWorkingDirectory validates the configured working directory
// before the process is spawned, so a missing directory reports a
// directory-specific error rather than a generic spawn failure.
func (a *Adapter) checkWorkingDirectory() error {
	if a.options.Cwd == nil {
		return nil
	}

	info, err := os.Stat(*a.options.Cwd)
	if err != nil || !info.IsDir() {
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeBadWorkingDir,
			fmt.Sprintf(
				"working directory does not exist: %s",
				*a.options.Cwd,
			),
			err,
		)
	}

	return nil
}

// setupCLIAndCommand locates the Claude CLI and builds the exec.Cmd.
// CLAUDE_CODE_ENTRYPOINT identifies the process as originating from the
// Go SDK.
func (a *Adapter) setupCLIAndCommand(ctx context.Context) error {
	cliPath, err := findCLI()
	if err != nil {
		return err
	}
	a.cliPath = cliPath

	cmdArgs, err := a.BuildCommand()
	if err != nil {
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeProcessSpawn,
			"command construction failed",
			err,
		)
	}

	env := os.Environ()
	env = append(env, "CLAUDE_CODE_ENTRYPOINT=sdk-go")
	for k, v := range a.options.Env {
		env = append(env, k+"="+v)
	}

	a.cmd = exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	a.cmd.Env = env
	if a.options.Cwd != nil {
		a.cmd.Dir = *a.options.Cwd
	}
	configureProcessGroup(a.cmd)

	return nil
}

// setupPipes establishes the three communication channels.
// Stdout and stderr use parent-owned pipes rather than cmd.StdoutPipe:
// Wait closes StdoutPipe's read end as soon as the process exits, which
// can discard frames the CLI emitted but the reader has not consumed
// yet. With parent-owned pipes, Wait has nothing to close and the
// readers drain to a true EOF.
func (a *Adapter) setupPipes() error {
	stdin, err := a.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe failed: %w", err)
	}
	a.stdin = stdin

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("stdout pipe failed: %w", err)
	}
	a.cmd.Stdout = stdoutW
	a.stdout = stdoutR
	a.stdoutW = stdoutW

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("stderr pipe failed: %w", err)
	}
	a.cmd.Stderr = stderrW
	a.stderr = stderrR
	a.stderrW = stderrW

	return nil
}

// startProcess launches the CLI subprocess and begins the stderr drain
// and exit monitor goroutines.
func (a *Adapter) startProcess() error {
	err := a.cmd.Start()

	// The child holds its own descriptors for the write ends; the
	// parent's copies must go so the readers see EOF when the child
	// exits.
	_ = a.stdoutW.Close()
	_ = a.stderrW.Close()

	if err != nil {
		_ = a.stdout.Close()
		_ = a.stderr.Close()

		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeProcessSpawn,
			"process start failed",
			err,
		)
	}

	go a.drainStderr()
	go a.waitProcess()

	return nil
}

// configureStdinMode determines stdin handling strategy.
// Non-streaming mode closes stdin after the first write to signal EOF.
func (a *Adapter) configureStdinMode() {
	if !a.options.IsStreaming {
		a.closeStdinAfterWrite = true
	}
}

// drainStderr continuously reads stderr so an unread diagnostic stream
// can never block the CLI by filling its OS pipe buffer. Lines are
// forwarded to the configured callback; forwarding failures are
// swallowed and never reach the caller's main flow.
func (a *Adapter) drainStderr() {
	scanner := bufio.NewScanner(a.stderr)
	for scanner.Scan() {
		line := scanner.Text()

		a.mu.Lock()
		if a.stderrTail.Len() < maxStderrTailBytes {
			a.stderrTail.WriteString(line)
			a.stderrTail.WriteString("\n")
		}
		a.mu.Unlock()

		if cb := a.options.StderrCallback; cb != nil {
			func() {
				defer func() { _ = recover() }()
				cb(line)
			}()
		}
	}
}

// waitProcess reaps the subprocess and records its exit status.
// Safe to run while the read loop is still scanning: the stdio pipes
// are parent-owned, so Wait cannot close a read end that still holds
// undelivered frames.
func (a *Adapter) waitProcess() {
	err := a.cmd.Wait()

	a.mu.Lock()
	a.ready = false
	if a.cmd.ProcessState != nil {
		a.exitCode = a.cmd.ProcessState.ExitCode()
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		a.exitCode = exitErr.ExitCode()
	}
	a.mu.Unlock()

	close(a.exited)
}
