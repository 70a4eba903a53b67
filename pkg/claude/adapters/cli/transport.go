// Package cli implements the CLI subprocess transport adapter.
//
// This adapter implements the Transport port using subprocess
// communication with the Claude Code CLI over line-oriented stream-json.
package cli

import (
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/driftlock/claude-agent-go/pkg/claude/options"
	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
)

// Adapter implements ports.Transport using a CLI subprocess.
type Adapter struct {
	options *options.AgentOptions
	cliPath string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	// stdoutW and stderrW are the parent's copies of the pipe write
	// ends, released right after the process starts.
	stdoutW *os.File
	stderrW *os.File

	ready                bool
	closed               bool
	closeStdinAfterWrite bool

	// fatalErr is the sticky terminal cause. Once set, every public
	// operation fails with it until Close.
	fatalErr error

	// exited closes once the subprocess has been reaped.
	exited   chan struct{}
	exitCode int

	stderrTail strings.Builder

	closeOnce sync.Once
	mu        sync.RWMutex

	maxBufferSize int
}

// Verify interface compliance at compile time.
var _ ports.Transport = (*Adapter)(nil)

const (
	defaultMaxBufferSize = 1024 * 1024 // 1MB
	maxStderrTailBytes   = 16 * 1024

	claudeBinaryName = "claude"
)

// NewAdapter creates a new CLI transport adapter.
func NewAdapter(opts *options.AgentOptions) *Adapter {
	maxBuf := defaultMaxBufferSize
	if opts.MaxBufferSize != nil {
		maxBuf = *opts.MaxBufferSize
	}

	return &Adapter{
		options:       opts,
		maxBufferSize: maxBuf,
		exited:        make(chan struct{}),
	}
}

// IsReady checks if the transport is ready for communication.
// Returns true after successful Connect, false after Close.
func (a *Adapter) IsReady() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.ready
}
