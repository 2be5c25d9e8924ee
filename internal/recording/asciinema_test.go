package recording_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hex1b/hex1b/internal/recording"
)

func TestRecorderWritesHeaderThenEvents(t *testing.T) {
	var buf bytes.Buffer
	rec, err := recording.New(&buf, 80, 24, "/bin/bash", 1700000000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := rec.Output(0.1, "hello"); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if err := rec.Resize(0.2, 100, 30); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 events), got %d", len(lines))
	}

	var header recording.Header
	if err := json.Unmarshal([]byte(lines[0]), &header); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if header.Version != 2 || header.Width != 80 || header.Height != 24 {
		t.Fatalf("unexpected header: %+v", header)
	}

	if !strings.Contains(lines[1], `"o"`) || !strings.Contains(lines[1], "hello") {
		t.Fatalf("unexpected output event line: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"r"`) || !strings.Contains(lines[2], "100x30") {
		t.Fatalf("unexpected resize event line: %s", lines[2])
	}
}
