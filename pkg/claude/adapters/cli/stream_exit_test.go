package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/driftlock/claude-agent-go/pkg/claude/options"
	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// installFakeCLI puts an executable claude stand-in on PATH so Connect
// spawns a real subprocess with scripted output.
func installFakeCLI(t *testing.T, script string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake CLI script requires a unix shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, claudeBinaryName)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestReadMessagesDeliversAllFramesAtExit(t *testing.T) {
	const frameCount = 2000

	installFakeCLI(t, `#!/bin/sh
i=0
while [ "$i" -lt 2000 ]; do
  printf '{"type":"user","message":{"content":"m-%d"}}\n' "$i"
  i=$((i+1))
done
`)

	a := NewAdapter(&options.AgentOptions{})
	ctx := context.Background()
	if err := a.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer a.Close()

	msgCh, errCh := a.ReadMessages(ctx)

	count := 0
	for msg := range msgCh {
		want := fmt.Sprintf("m-%d", count)
		message, _ := msg["message"].(map[string]any)
		if message["content"] != want {
			t.Fatalf(
				"frame %d content = %v, want %s",
				count, message["content"], want,
			)
		}
		count++
	}
	for err := range errCh {
		t.Errorf("unexpected stream error: %v", err)
	}

	// The process exits as soon as its last write is buffered; every
	// frame must still arrive, in order.
	if count != frameCount {
		t.Fatalf("delivered %d frames, want %d", count, frameCount)
	}
}

func TestReadMessagesReportsExitStatusAfterFrames(t *testing.T) {
	installFakeCLI(t, `#!/bin/sh
printf '{"type":"assistant","message":{"content":[]}}\n'
echo "boom" >&2
exit 7
`)

	a := NewAdapter(&options.AgentOptions{})
	ctx := context.Background()
	if err := a.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer a.Close()

	msgCh, errCh := a.ReadMessages(ctx)

	count := 0
	for range msgCh {
		count++
	}
	var got error
	for err := range errCh {
		got = err
	}

	if count != 1 {
		t.Fatalf("delivered %d frames, want 1", count)
	}

	var procErr *clauderrs.ProcessError
	if !errors.As(got, &procErr) {
		t.Fatalf("expected ProcessError after the stream, got %T: %v", got, got)
	}
	if procErr.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", procErr.ExitCode)
	}
}

func TestCloseDuringStreamEndsSequenceCleanly(t *testing.T) {
	installFakeCLI(t, `#!/bin/sh
printf '{"type":"system","subtype":"ping"}\n'
sleep 30
`)

	a := NewAdapter(&options.AgentOptions{})
	ctx := context.Background()
	if err := a.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	msgCh, errCh := a.ReadMessages(ctx)

	if _, ok := <-msgCh; !ok {
		t.Fatal("expected a frame before close")
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The consumer's sequence terminates without a read fault or a
	// ProcessError for the exit we forced.
	for range msgCh {
	}
	for err := range errCh {
		t.Errorf("unexpected error after intentional close: %v", err)
	}
}
