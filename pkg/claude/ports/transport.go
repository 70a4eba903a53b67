// Package ports defines interfaces that the domain needs from
// infrastructure. These are "ports" in hexagonal architecture - contracts
// defined by domain needs, not by external systems.
package ports

import "context"

// Transport defines what the domain needs from a transport layer.
// This abstracts stdio communication with the Claude CLI process.
type Transport interface {
	// Connect establishes connection to the Claude CLI.
	// It is idempotent: a second call while connected is a no-op and
	// must not spawn a second process.
	Connect(ctx context.Context) error

	// Write sends one logical request to the CLI.
	// Fails when not connected, after the process has exited, or after
	// a prior fatal write failure (sticky error).
	Write(ctx context.Context, data string) error

	// ReadMessages returns channels for incoming decoded frames and
	// errors. Both channels close when the stream ends or ctx is
	// cancelled. A non-zero exit status surfaces on the error channel
	// after the frame sequence completes.
	ReadMessages(ctx context.Context) (<-chan map[string]any, <-chan error)

	// EndInput signals end of the input stream.
	EndInput() error

	// Close terminates the connection. Idempotent; never panics and
	// completes teardown even when individual steps fail.
	Close() error

	// IsReady checks if the transport is ready to send/receive.
	IsReady() bool
}
