package humanfmt

import (
	"testing"
	"time"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1572864, "1.50 MiB"},
		{1073741824, "1.00 GiB"},
		{1649267441664, "1.50 TiB"},
		{-100, "-100 B"},
	}

	for _, tt := range tests {
		if got := Bytes(tt.input); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.00K"},
		{456000, "456.00K"},
		{1230000, "1.23M"},
		{2500000000, "2.50B"},
		{-5, "-5"},
	}

	for _, tt := range tests {
		if got := Count(tt.input); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := CountUint64(1500); got != "1.50K" {
		t.Errorf("CountUint64(1500) = %q, want %q", got, "1.50K")
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0ns"},
		{500 * time.Nanosecond, "500ns"},
		{500 * time.Microsecond, "500.0µs"},
		{1 * time.Millisecond, "1.0ms"},
		{1230 * time.Millisecond, "1.23s"},
		{60 * time.Second, "1m"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h"},
		{8100 * time.Second, "2h15m"},
		{-time.Second, "-1s"},
	}

	for _, tt := range tests {
		if got := Duration(tt.input); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		n    int64
		d    time.Duration
		want string
	}{
		{0, time.Second, "0 lines/s"},
		{500, time.Second, "500 lines/s"},
		{25000, 2 * time.Second, "12.50K lines/s"},
		{3000000, time.Second, "3.00M lines/s"},
		{10, 0, "∞ lines/s"},
	}

	for _, tt := range tests {
		if got := Rate(tt.n, tt.d, "lines"); got != tt.want {
			t.Errorf("Rate(%d, %v) = %q, want %q", tt.n, tt.d, got, tt.want)
		}
	}
}
