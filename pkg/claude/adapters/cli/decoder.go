package cli

import (
	"encoding/json"
	"strings"

	"github.com/driftlock/claude-agent-go/pkg/clauderrs"
)

// decoder converts raw text chunks into complete JSON records.
//
// A record boundary coincides with "buffer becomes parseable", not with
// one input chunk: a single logical record may arrive split across many
// chunks, and the decoder never assumes chunk-level atomicity. Undecoded
// bytes are bounded by limit; exceeding it discards the buffer so
// decoding can resynchronize on the next record boundary.
type decoder struct {
	buf   strings.Builder
	limit int
}

func newDecoder(limit int) *decoder {
	return &decoder{limit: limit}
}

// feed accumulates one chunk and attempts to complete a record.
// Returns (record, true, nil) when the buffer closed a JSON value,
// (nil, false, nil) when more input is needed or the chunk was blank,
// and (nil, false, err) when the accumulated size exceeded the limit.
func (d *decoder) feed(chunk string) (map[string]any, bool, error) {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return nil, false, nil
	}

	d.buf.WriteString(chunk)

	if d.buf.Len() > d.limit {
		d.buf.Reset()

		return nil, false, clauderrs.NewJSONDecodeError(d.limit)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(d.buf.String()), &record); err != nil {
		// Incomplete value; keep accumulating.
		return nil, false, nil
	}

	d.buf.Reset()

	return record, true, nil
}

// pending returns the number of undecoded buffered bytes.
func (d *decoder) pending() int {
	return d.buf.Len()
}
