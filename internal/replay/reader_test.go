package replay

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// TestReaderWrappedRecords verifies the timestamped record format.
func TestReaderWrappedRecords(t *testing.T) {
	input := `{"timestamp": 0.033, "landmarks": {"left_elbow": {"x": 0.5, "y": 0.5, "visibility": 0.9}}}
{"timestamp": 0.066, "landmarks": {"left_elbow": {"x": 0.5, "y": 0.6, "visibility": 0.9}}}
`
	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Timestamp != 0.033 {
		t.Errorf("timestamp = %f, want 0.033", rec.Timestamp)
	}
	lm, ok := rec.Landmarks["left_elbow"]
	if !ok || lm.Visibility != 0.9 {
		t.Errorf("landmarks = %+v", rec.Landmarks)
	}

	if _, err := r.Next(); err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

// TestReaderBareFrames verifies lines that are plain landmark maps without
// the wrapper object.
func TestReaderBareFrames(t *testing.T) {
	input := `{"left_wrist": {"x": 0.1, "y": 0.2, "visibility": 1}}`
	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, ok := rec.Landmarks["left_wrist"]; !ok {
		t.Errorf("landmarks = %+v, want left_wrist entry", rec.Landmarks)
	}
}

// TestReaderSkipsBlankLines verifies blank lines do not produce records.
func TestReaderSkipsBlankLines(t *testing.T) {
	input := "\n\n{\"left_wrist\": {\"x\": 0.1, \"y\": 0.2, \"visibility\": 1}}\n\n"
	r := NewReader(strings.NewReader(input))

	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

// TestReaderReportsLineNumber verifies malformed lines fail with their
// position in the file.
func TestReaderReportsLineNumber(t *testing.T) {
	input := "{\"left_wrist\": {\"x\": 0.1, \"y\": 0.2, \"visibility\": 1}}\nnot json\n"
	r := NewReader(strings.NewReader(input))

	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	_, err := r.Next()
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line number", err)
	}
}
