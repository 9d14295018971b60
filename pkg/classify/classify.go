// Package classify decides whether a trimmed input line is an integer,
// a floating-point number, or an opaque string.
package classify

import (
	"strconv"
	"strings"
)

// Category is the fixed classification of an input line.
type Category int

// Category values.
const (
	Integer Category = iota
	Float
	String
)

// Categories lists every category in report order.
var Categories = [...]Category{Integer, Float, String}

// String returns the lowercase category name used in logs.
func (c Category) String() string {
	switch c {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Label returns the heading used in the statistics report.
func (c Category) Label() string {
	switch c {
	case Integer:
		return "Integers"
	case Float:
		return "Floats"
	case String:
		return "Strings"
	default:
		return "Unknown"
	}
}

// Line is a classified line together with its parsed value.
type Line struct {
	Category Category
	// Raw is the trimmed text as it will be written to the output.
	Raw string
	// Int is set when Category is Integer.
	Int int64
	// Float is set when Category is Float.
	Float float64
}

// Classify returns the category of a trimmed, non-empty line.
func Classify(line string) Category {
	return Parse(line).Category
}

// Parse classifies line and returns the parsed numeric value.
//
// Integer is tried first (signed 64-bit decimal), then Float, which also
// requires a decimal point or exponent marker in the text. Everything else
// is String. Out-of-range values fall through to the next check, so a
// float literal that overflows float64 such as "1e400" is a String rather
// than an infinite Float, unlike parsers that round it to Infinity. The
// float accumulators therefore only ever see finite values.
func Parse(line string) Line {
	// strconv accepts digit separators in some forms; plain numeric text never has them.
	if strings.IndexByte(line, '_') >= 0 {
		return Line{Category: String, Raw: line}
	}

	if v, err := strconv.ParseInt(line, 10, 64); err == nil {
		return Line{Category: Integer, Raw: line, Int: v}
	}

	if hasFloatMarker(line) {
		if v, err := strconv.ParseFloat(line, 64); err == nil {
			return Line{Category: Float, Raw: line, Float: v}
		}
	}

	return Line{Category: String, Raw: line}
}

// hasFloatMarker reports whether s contains '.', 'e' or 'E'.
func hasFloatMarker(s string) bool {
	return strings.ContainsAny(s, ".eE")
}
