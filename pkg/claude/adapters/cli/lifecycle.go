package cli

import "time"

// closeWaitGrace bounds how long Close waits for the subprocess to be
// reaped after the kill signal.
const closeWaitGrace = 5 * time.Second

// Close terminates the transport connection.
// It is idempotent and safe to call concurrently: exactly one teardown
// runs, every caller returns nil, and teardown always completes even
// when individual steps fail (first failure is swallowed, not re-raised).
// Teardown order: close the write side, kill the process tree, wait for
// the reaper, release the read side.
func (a *Adapter) Close() error {
	a.closeOnce.Do(a.teardown)

	return nil
}

func (a *Adapter) teardown() {
	a.mu.Lock()
	a.ready = false
	a.closed = true
	stdin := a.stdin
	stdout := a.stdout
	stderr := a.stderr
	cmd := a.cmd
	started := cmd != nil && cmd.Process != nil
	a.mu.Unlock()

	if stdin != nil {
		_ = stdin.Close()
	}

	if started {
		killProcessTree(cmd)

		// Wait for the reaper goroutine so the exit status is
		// recorded; bounded so Close cannot hang on a wedged wait.
		select {
		case <-a.exited:
		case <-time.After(closeWaitGrace):
		}
	}

	// Closing stdout unblocks any consumer still iterating frames; its
	// sequence terminates rather than hanging. The pipes are
	// parent-owned, so nothing else will release them.
	if stdout != nil {
		_ = stdout.Close()
	}
	if stderr != nil {
		_ = stderr.Close()
	}
}
