package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

func TestDecoderSingleRecord(t *testing.T) {
	d := newDecoder(defaultMaxBufferSize)

	record, done, err := d.feed(`{"type":"result","subtype":"success"}`)
	if err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	if !done {
		t.Fatal("expected a completed record")
	}
	if record["type"] != "result" {
		t.Errorf("record = %#v", record)
	}
	if d.pending() != 0 {
		t.Errorf("pending() = %d after complete record", d.pending())
	}
}

func TestDecoderMultiChunkRecord(t *testing.T) {
	d := newDecoder(defaultMaxBufferSize)

	chunks := []string{`{"type":"assist`, `ant","message"`, `:{"content":[]}}`}
	for i, chunk := range chunks[:len(chunks)-1] {
		record, done, err := d.feed(chunk)
		if err != nil {
			t.Fatalf("feed(chunk %d) error = %v", i, err)
		}
		if done || record != nil {
			t.Fatalf("feed(chunk %d) completed early: %#v", i, record)
		}
	}

	record, done, err := d.feed(chunks[len(chunks)-1])
	if err != nil {
		t.Fatalf("feed(final chunk) error = %v", err)
	}
	if !done {
		t.Fatal("expected record completion on final chunk")
	}
	if record["type"] != "assistant" {
		t.Errorf("record = %#v", record)
	}
}

func TestDecoderBlankChunks(t *testing.T) {
	d := newDecoder(defaultMaxBufferSize)

	for _, chunk := range []string{"", "   ", "\n", "\t\r\n"} {
		record, done, err := d.feed(chunk)
		if err != nil || done || record != nil {
			t.Errorf(
				"feed(%q) = (%v, %v, %v), want no-op",
				chunk, record, done, err,
			)
		}
	}
	if d.pending() != 0 {
		t.Errorf("pending() = %d after blank input", d.pending())
	}
}

func TestDecoderSizeBoundary(t *testing.T) {
	const limit = 100

	// 88 bytes of prefix plus a 12-byte closer lands exactly on the
	// limit; a 13-byte closer is one byte past it.
	prefix := `{"key":"` + strings.Repeat("x", 80)

	t.Run("exactly at limit decodes", func(t *testing.T) {
		d := newDecoder(limit)

		if _, done, err := d.feed(prefix); err != nil || done {
			t.Fatalf("feed(prefix) = (_, %v, %v)", done, err)
		}

		record, done, err := d.feed(strings.Repeat("x", 10) + `"}`)
		if err != nil {
			t.Fatalf("feed(closer) error = %v", err)
		}
		if !done {
			t.Fatal("expected record at exactly the limit")
		}
		if got := record["key"].(string); len(got) != 90 {
			t.Errorf("key length = %d", len(got))
		}
	})

	t.Run("one byte over limit fails", func(t *testing.T) {
		d := newDecoder(limit)

		if _, _, err := d.feed(prefix); err != nil {
			t.Fatalf("feed(prefix) error = %v", err)
		}

		_, done, err := d.feed(strings.Repeat("x", 11) + `"}`)
		if err == nil {
			t.Fatal("expected overflow error one byte past the limit")
		}
		if done {
			t.Error("overflow must not produce a record")
		}

		var decodeErr *clauderrs.JSONDecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected JSONDecodeError, got %T", err)
		}
		if decodeErr.Limit != limit {
			t.Errorf("Limit = %d, want %d", decodeErr.Limit, limit)
		}
	})
}

func TestDecoderResynchronizesAfterOverflow(t *testing.T) {
	d := newDecoder(32)

	if _, _, err := d.feed(`{"pad":"` + strings.Repeat("y", 40)); err == nil {
		t.Fatal("expected overflow error")
	}
	if d.pending() != 0 {
		t.Fatalf("pending() = %d, buffer not discarded", d.pending())
	}

	record, done, err := d.feed(`{"type":"user"}`)
	if err != nil {
		t.Fatalf("feed() after overflow error = %v", err)
	}
	if !done || record["type"] != "user" {
		t.Errorf("record after overflow = %#v", record)
	}
}
