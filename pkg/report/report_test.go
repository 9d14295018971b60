package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eunmann/content-filter/pkg/pipeline"
	"github.com/eunmann/content-filter/pkg/source"
)

func scenarioResult(t *testing.T, content string) *pipeline.Result {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{OutputDir: filepath.Join(dir, "out")}
	res, err := pipeline.New(opts, source.NewRouter()).Run(context.Background(), []string{in})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestWriteFull(t *testing.T) {
	res := scenarioResult(t, "5\n3.5\nhello\n\n  \n10\n")

	var buf bytes.Buffer
	if err := Write(&buf, res, Full); err != nil {
		t.Fatal(err)
	}

	want := `Integers:
    Count: 2
    Min: 5
    Max: 10
    Sum: 15
    Average: 7.5
Floats:
    Count: 1
    Min: 3.5
    Max: 3.5
    Sum: 3.5
    Average: 3.5
Strings:
    Count: 1
    Min length: 5
    Max length: 5
`
	if buf.String() != want {
		t.Errorf("report =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteShort(t *testing.T) {
	res := scenarioResult(t, "1\n2\nword\n")

	var buf bytes.Buffer
	if err := Write(&buf, res, Short); err != nil {
		t.Fatal(err)
	}

	want := "Integers:\n    Count: 2\nStrings:\n    Count: 1\n"
	if buf.String() != want {
		t.Errorf("report = %q, want %q", buf.String(), want)
	}
}

func TestWriteNone(t *testing.T) {
	res := scenarioResult(t, "1\n")

	var buf bytes.Buffer
	if err := Write(&buf, res, None); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWriteFullPrintsCountOnce(t *testing.T) {
	res := scenarioResult(t, "1\n")

	var buf bytes.Buffer
	if err := Write(&buf, res, LevelFromFlags(true, true)); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "Count:"); n != 1 {
		t.Errorf("Count printed %d times:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "Average: 1.0") {
		t.Errorf("expected average in full report:\n%s", buf.String())
	}
}

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		short, full bool
		want        Level
	}{
		{false, false, None},
		{true, false, Short},
		{false, true, Full},
		{true, true, Full},
	}

	for _, tt := range tests {
		if got := LevelFromFlags(tt.short, tt.full); got != tt.want {
			t.Errorf("LevelFromFlags(%v, %v) = %s, want %s", tt.short, tt.full, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{None, Short, Full} {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = (%s, %v)", l.String(), got, err)
		}
	}
	if got, err := ParseLevel("FULL"); err != nil || got != Full {
		t.Errorf("ParseLevel(FULL) = (%s, %v)", got, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{7.5, "7.5"},
		{-3.25, "-3.25"},
		{1000000.5, "1000000.5"},
		{0.001, "0.001"},
		{0.00001, "1.0e-05"},
		{1.5e-7, "1.5e-07"},
		{1e21, "1.0e+21"},
		{1.25e22, "1.25e+22"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.input); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
