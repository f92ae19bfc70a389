// Package replay runs recorded landmark streams through the analysis engine
// offline and produces the same workout summaries a live session would.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/claude/repcoach/internal/analysis"
)

// Record is one line of a JSONL recording: either a wrapped frame with an
// optional capture timestamp, or a bare landmark map.
type Record struct {
	Timestamp float64        `json:"timestamp,omitempty"`
	Landmarks analysis.Frame `json:"landmarks,omitempty"`
}

// maxLineBytes bounds a single recording line. A full 33-landmark frame is
// a few KB; 1 MB leaves room for extra fields.
const maxLineBytes = 1 << 20

// Reader streams records from a JSONL recording. Blank lines are skipped.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps an io.Reader producing one JSON record per line.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{sc: sc}
}

// Next returns the next record, or io.EOF when the recording is exhausted.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if rec.Landmarks == nil {
			// Bare frame without the wrapper object.
			var frame analysis.Frame
			if err := json.Unmarshal([]byte(line), &frame); err != nil {
				return Record{}, fmt.Errorf("line %d: %w", r.line, err)
			}
			rec.Landmarks = frame
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return Record{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return Record{}, io.EOF
}
