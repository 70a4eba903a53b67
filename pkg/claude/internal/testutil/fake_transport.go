package testutil

import (
	"context"
	"sync"

	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
)

// FakeTransport simulates CLI transport behavior for hermetic testing.
// It queues responses and tracks write history without spawning
// processes.
type FakeTransport struct {
	mu            sync.Mutex
	responses     []map[string]any
	finalErr      error
	isConnected   bool
	connectCalls  int
	closeCalls    int
	writeHistory  []string
	simulateError error
}

// NewFakeTransport creates a new fake transport for testing.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		responses:    make([]map[string]any, 0),
		writeHistory: make([]string, 0),
	}
}

// Compile-time interface check.
var _ ports.Transport = (*FakeTransport)(nil)

// QueueResponse adds a frame to be returned by ReadMessages.
func (f *FakeTransport) QueueResponse(msg map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, msg)
}

// QueueFinalError surfaces err on the error channel after all queued
// frames have been delivered, like a non-zero exit status would.
func (f *FakeTransport) QueueFinalError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalErr = err
}

// SimulateError causes subsequent operations to fail with err.
func (f *FakeTransport) SimulateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulateError = err
}

// Connect simulates connecting to the CLI.
func (f *FakeTransport) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.simulateError != nil {
		return f.simulateError
	}
	if !f.isConnected {
		f.connectCalls++
	}
	f.isConnected = true

	return nil
}

// Write simulates writing to CLI stdin and records the frame.
func (f *FakeTransport) Write(_ context.Context, data string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.simulateError != nil {
		return f.simulateError
	}
	f.writeHistory = append(f.writeHistory, data)

	return nil
}

// ReadMessages returns the queued frames in enqueue order, then the
// final error if one was queued.
func (f *FakeTransport) ReadMessages(
	ctx context.Context,
) (<-chan map[string]any, <-chan error) {
	f.mu.Lock()
	responses := make([]map[string]any, len(f.responses))
	copy(responses, f.responses)
	finalErr := f.finalErr
	f.mu.Unlock()

	msgCh := make(chan map[string]any)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		defer close(errCh)

		for _, msg := range responses {
			select {
			case msgCh <- msg:
			case <-ctx.Done():
				return
			}
		}

		if finalErr != nil {
			errCh <- finalErr
		}
	}()

	return msgCh, errCh
}

// EndInput simulates ending input to the CLI.
func (f *FakeTransport) EndInput() error {
	return nil
}

// Close simulates closing the connection.
func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isConnected {
		f.closeCalls++
	}
	f.isConnected = false

	return nil
}

// IsReady returns whether the transport is connected.
func (f *FakeTransport) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.isConnected
}

// WriteHistory returns a copy of all frames written to the transport.
func (f *FakeTransport) WriteHistory() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := make([]string, len(f.writeHistory))
	copy(history, f.writeHistory)

	return history
}

// ConnectCalls returns how many times Connect transitioned the fake to
// connected.
func (f *FakeTransport) ConnectCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.connectCalls
}

// CloseCalls returns how many times Close transitioned the fake to
// disconnected.
func (f *FakeTransport) CloseCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closeCalls
}
