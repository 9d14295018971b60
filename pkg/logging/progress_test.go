package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestProgressTracker_BasicOperations(t *testing.T) {
	pt := NewProgressTracker(4)

	pt.RecordCompletion(100)
	pt.RecordCompletion(50)
	pt.RecordFailure(7)

	completed, failed, total := pt.Progress()
	if completed != 2 {
		t.Errorf("expected completed=2, got %d", completed)
	}
	if failed != 1 {
		t.Errorf("expected failed=1, got %d", failed)
	}
	if total != 4 {
		t.Errorf("expected total=4, got %d", total)
	}

	if pct := pt.ProgressPct(); pct != 75.0 {
		t.Errorf("expected progress 75%%, got %.1f%%", pct)
	}
	if remaining := pt.Remaining(); remaining != 1 {
		t.Errorf("expected remaining=1, got %d", remaining)
	}
	if lines := pt.Lines(); lines != 157 {
		t.Errorf("expected lines=157, got %d", lines)
	}
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	pt := NewProgressTracker(0)
	if pct := pt.ProgressPct(); pct != 100.0 {
		t.Errorf("expected 100%% for zero total, got %.1f%%", pct)
	}
	if pt.Elapsed() < 0 {
		t.Error("negative elapsed time")
	}
}

func decodeEvent(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("log output is not JSON: %v: %s", err, buf.String())
	}
	return m
}

func TestCompletionEvent_BasicFields(t *testing.T) {
	SetPrettyMode(false)
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	FileProcessed(log, "classify", 2*time.Second).
		Str("input", "a.txt").
		Count("lines", 1500).
		Bytes("size", 2048).
		LineRate(1500).
		Log("input processed")

	m := decodeEvent(t, &buf)
	if m["event"] != "file_processed" {
		t.Errorf("event = %v, want file_processed", m["event"])
	}
	if m["phase"] != "classify" {
		t.Errorf("phase = %v, want classify", m["phase"])
	}
	if m["duration_ms"] != float64(2000) {
		t.Errorf("duration_ms = %v, want 2000", m["duration_ms"])
	}
	if m["lines"] != float64(1500) {
		t.Errorf("lines = %v, want 1500", m["lines"])
	}
	if m["lines_per_sec"] != float64(750) {
		t.Errorf("lines_per_sec = %v, want 750", m["lines_per_sec"])
	}
	if _, ok := m["lines_h"]; ok {
		t.Error("human companion field present in non-pretty mode")
	}
	if m["message"] != "input processed" {
		t.Errorf("message = %v", m["message"])
	}
}

func TestCompletionEvent_PrettyMode(t *testing.T) {
	SetPrettyMode(true)
	defer SetPrettyMode(false)

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	PhaseComplete(log, "run", 90*time.Second).
		Count("lines", 2500000).
		LineRate(2500000).
		Log("run complete")

	m := decodeEvent(t, &buf)
	if m["lines_h"] != "2.50M" {
		t.Errorf("lines_h = %v, want 2.50M", m["lines_h"])
	}
	if m["duration_h"] != "1m30s" {
		t.Errorf("duration_h = %v, want 1m30s", m["duration_h"])
	}
	if s, _ := m["lines_per_sec_h"].(string); !strings.HasSuffix(s, "lines/s") {
		t.Errorf("lines_per_sec_h = %v", m["lines_per_sec_h"])
	}
}

func TestCompletionEvent_ProgressFromTracker(t *testing.T) {
	SetPrettyMode(false)
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	pt := NewProgressTracker(2)
	pt.RecordCompletion(3)

	PhaseComplete(log, "run", time.Millisecond).ProgressFromTracker(pt).Log("progress")

	m := decodeEvent(t, &buf)
	if m["completed"] != float64(1) || m["failed"] != float64(0) || m["total"] != float64(2) {
		t.Errorf("unexpected progress fields: %v", m)
	}
	if m["progress_pct"] != float64(50) {
		t.Errorf("progress_pct = %v, want 50", m["progress_pct"])
	}
}

func TestCompletionEvent_LogDebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	FileRemoved(log, "prune", 0).Str("path", "x").LogDebug("removed")
	if buf.Len() != 0 {
		t.Errorf("debug event emitted at info level: %s", buf.String())
	}
}
