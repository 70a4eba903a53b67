package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// Write implements ports.Transport.
// Each call delivers exactly one logical request, newline-terminated.
// Writes are serialized by the adapter mutex; a fatal write failure is
// sticky and fails every subsequent write with the same wrapped cause.
func (a *Adapter) Write(_ context.Context, data string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

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
	if !a.ready {
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeNotConnected,
			"transport not connected",
			nil,
		)
	}

	select {
	case <-a.exited:
		return clauderrs.NewConnectionError(
			clauderrs.ErrCodeWriteFailed,
			"process has already exited",
			nil,
		)
	default:
	}

	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}

	if _, err := a.stdin.Write([]byte(data)); err != nil {
		a.fatalErr = clauderrs.NewConnectionError(
			clauderrs.ErrCodeWriteFailed,
			"write to CLI failed",
			err,
		)

		return a.fatalErr
	}

	// Close stdin after the first write for one-shot queries.
	if a.closeStdinAfterWrite {
		a.closeStdinAfterWrite = false
		_ = a.stdin.Close()
	}

	return nil
}

// EndInput signals no more input will be sent.
// Closes stdin to trigger EOF in the CLI subprocess.
func (a *Adapter) EndInput() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stdin != nil {
		return a.stdin.Close()
	}

	return nil
}

// ReadMessages implements ports.Transport.
// It produces a lazy, cancellable sequence of decoded frames in the
// exact order the CLI emitted them. Both channels close when the stream
// ends or ctx is cancelled; a non-zero exit status surfaces on the error
// channel only after the frame sequence completes.
func (a *Adapter) ReadMessages(
	ctx context.Context,
) (<-chan map[string]any, <-chan error) {
	msgCh := make(chan map[string]any)
	errCh := make(chan error, 1)

	a.mu.RLock()
	ready := a.ready
	fatal := a.fatalErr
	stdout := a.stdout
	a.mu.RUnlock()

	if !ready || stdout == nil {
		close(msgCh)
		if fatal != nil {
			errCh <- fatal
		} else {
			errCh <- clauderrs.NewConnectionError(
				clauderrs.ErrCodeNotConnected,
				"transport not connected",
				nil,
			)
		}
		close(errCh)

		return msgCh, errCh
	}

	go a.readLoop(ctx, stdout, msgCh, errCh)

	return msgCh, errCh
}

// readLoop scans stdout, feeds the streaming decoder, and forwards
// complete records. A decode-limit error discards only that frame
// boundary; the loop keeps reading so decoding resynchronizes.
func (a *Adapter) readLoop(
	ctx context.Context,
	stdout io.Reader,
	msgCh chan<- map[string]any,
	errCh chan<- error,
) {
	defer close(msgCh)
	defer close(errCh)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), a.maxBufferSize)
	dec := newDecoder(a.maxBufferSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		record, complete, err := dec.feed(scanner.Text())
		if err != nil {
			select {
			case errCh <- err:
			case <-ctx.Done():
				return
			}

			continue
		}
		if !complete {
			continue
		}

		select {
		case msgCh <- record:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		// A read failure caused by our own teardown is not a fault;
		// the sequence just ends.
		if a.isClosed() {
			return
		}

		errCh <- a.wrapScanError(err)

		return
	}

	a.reportExitStatus(ctx, errCh)
}

// wrapScanError maps scanner failures to typed errors.
// An over-long line is a decode-limit violation, not a transport fault.
func (a *Adapter) wrapScanError(err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return clauderrs.NewJSONDecodeError(a.maxBufferSize)
	}

	return clauderrs.NewConnectionError(
		clauderrs.ErrCodeReadFailed,
		"read from CLI failed",
		err,
	)
}

// reportExitStatus surfaces a non-zero exit as a ProcessError after the
// frame sequence is exhausted, never mid-iteration. An exit forced by
// Close is not reported: the caller asked for it.
func (a *Adapter) reportExitStatus(ctx context.Context, errCh chan<- error) {
	select {
	case <-a.exited:
	case <-ctx.Done():
		return
	}

	a.mu.RLock()
	code := a.exitCode
	tail := a.stderrTail.String()
	closed := a.closed
	a.mu.RUnlock()

	if code != 0 && !closed {
		errCh <- clauderrs.NewProcessError(code, tail, nil)
	}
}

// isClosed reports whether Close has begun teardown.
func (a *Adapter) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.closed
}
