package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_DoesNotPanic(t *testing.T) {
	Init(zerolog.InfoLevel, false)
	log := L()
	log.Info().Msg("test json info")

	Init(zerolog.DebugLevel, false)
	L().Debug().Msg("test json debug")

	Init(zerolog.InfoLevel, true)
	if !IsPrettyMode() {
		t.Error("expected pretty mode after Init(human=true)")
	}
	L().Info().Msg("test human info")

	Init(zerolog.WarnLevel, false)
	if IsPrettyMode() {
		t.Error("expected pretty mode off after Init(human=false)")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.WarnLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithPhase(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(zerolog.WarnLevel, false)

	log := WithPhase("classify")
	log.Warn().Msg("test message")

	if !bytes.Contains(buf.Bytes(), []byte(`"phase":"classify"`)) {
		t.Errorf("expected phase field in output, got: %s", buf.String())
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).With().Str("custom", "field").Logger())
	defer Init(zerolog.WarnLevel, false)

	L().Warn().Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"custom":"field"`)) {
		t.Errorf("expected custom field in output, got: %s", buf.String())
	}
}

func TestInitTo(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, zerolog.InfoLevel, false)
	defer Init(zerolog.WarnLevel, false)

	L().Debug().Msg("filtered")
	L().Info().Msg("kept")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("filtered")) {
		t.Errorf("debug event written at info level: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"message":"kept"`)) {
		t.Errorf("info event missing: %s", out)
	}
	if IsPrettyMode() {
		t.Error("expected pretty mode off")
	}
}
