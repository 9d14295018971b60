package classify

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"42", Integer},
		{"-17", Integer},
		{"+5", Integer},
		{"007", Integer},
		{"-0", Integer},
		{"0", Integer},
		{"9223372036854775807", Integer},
		{"-9223372036854775808", Integer},
		{"3.14", Float},
		{"1e5", Float},
		{"1E-3", Float},
		{"1e10", Float},
		{"3.", Float},
		{".5", Float},
		{"-2.5e+3", Float},
		{"0x1.8p1", Float},
		{"hello", String},
		{"12abc", String},
		{"9223372036854775808", String},
		{"-9223372036854775809", String},
		{"1e400", String},
		{"NaN", String},
		{"Inf", String},
		{"Infinity", String},
		{"-Infinity", String},
		{"1_000", String},
		{"1_000.5", String},
		{".", String},
		{"e5", String},
		{"1.2.3", String},
		{"0x10", String},
		{"3,14", String},
	}

	for _, tt := range tests {
		got := Classify(tt.input)
		if got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseValues(t *testing.T) {
	l := Parse("-17")
	if l.Category != Integer || l.Int != -17 || l.Raw != "-17" {
		t.Errorf("Parse(-17) = %+v", l)
	}

	l = Parse("007")
	if l.Int != 7 {
		t.Errorf("Parse(007).Int = %d, want 7", l.Int)
	}

	l = Parse("1E-3")
	if l.Category != Float || math.Abs(l.Float-0.001) > 1e-15 {
		t.Errorf("Parse(1E-3) = %+v", l)
	}

	l = Parse("hello")
	if l.Category != String || l.Int != 0 || l.Float != 0 {
		t.Errorf("Parse(hello) = %+v", l)
	}
}

func TestClassifyIsPure(t *testing.T) {
	inputs := []string{"1", "2.5", "x", "1e3", "abc def"}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 3; i++ {
			if got := Classify(in); got != first {
				t.Errorf("Classify(%q) changed from %s to %s", in, first, got)
			}
		}
	}
}

func TestCategoryNames(t *testing.T) {
	tests := []struct {
		c     Category
		name  string
		label string
	}{
		{Integer, "integer", "Integers"},
		{Float, "float", "Floats"},
		{String, "string", "Strings"},
		{Category(99), "unknown", "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.c.Label(); got != tt.label {
			t.Errorf("Label() = %q, want %q", got, tt.label)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCategory("Integers"); ok {
		t.Error("ParseCategory accepted a report label")
	}
}
