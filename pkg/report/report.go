// Package report prints per-category statistics for a finished run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/eunmann/content-filter/pkg/classify"
	"github.com/eunmann/content-filter/pkg/pipeline"
)

// Level selects how much of the report is printed.
type Level int

// Report levels.
const (
	None Level = iota
	Short
	Full
)

// LevelFromFlags maps the short/full flags to a level. Full wins when both
// are set.
func LevelFromFlags(short, full bool) Level {
	switch {
	case full:
		return Full
	case short:
		return Short
	default:
		return None
	}
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Short:
		return "short"
	case Full:
		return "full"
	default:
		return "none"
	}
}

// ParseLevel parses "none", "short" or "full".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "short":
		return Short, nil
	case "full":
		return Full, nil
	default:
		return None, fmt.Errorf("unknown stats level %q", s)
	}
}

const indent = "    "

// Write prints the report for res at the given level. Categories with no
// lines are omitted; nothing is printed for None.
func Write(w io.Writer, res *pipeline.Result, level Level) error {
	if level == None {
		return nil
	}

	bw := bufio.NewWriter(w)
	for _, c := range classify.Categories {
		if res.Count(c) == 0 {
			continue
		}
		fmt.Fprintf(bw, "%s:\n", c.Label())
		fmt.Fprintf(bw, "%sCount: %d\n", indent, res.Count(c))
		if level != Full {
			continue
		}

		switch c {
		case classify.Integer:
			n := res.Integers
			fmt.Fprintf(bw, "%sMin: %d\n", indent, n.Min())
			fmt.Fprintf(bw, "%sMax: %d\n", indent, n.Max())
			fmt.Fprintf(bw, "%sSum: %s\n", indent, n.Sum().Num().String())
			fmt.Fprintf(bw, "%sAverage: %s\n", indent, FormatFloat(n.Average()))
		case classify.Float:
			n := res.Floats
			fmt.Fprintf(bw, "%sMin: %s\n", indent, FormatFloat(n.Min()))
			fmt.Fprintf(bw, "%sMax: %s\n", indent, FormatFloat(n.Max()))
			fmt.Fprintf(bw, "%sSum: %s\n", indent, FormatFloat(n.SumFloat64()))
			fmt.Fprintf(bw, "%sAverage: %s\n", indent, FormatFloat(n.Average()))
		case classify.String:
			s := res.Strings
			fmt.Fprintf(bw, "%sMin length: %d\n", indent, s.MinLength())
			fmt.Fprintf(bw, "%sMax length: %d\n", indent, s.MaxLength())
		}
	}
	return bw.Flush()
}

// FormatFloat renders f in its shortest round-trip form, always marked as a
// float: 2 prints as "2.0", 0.00001 as "1.0e-05" and 1e21 as "1.0e+21".
// Plain notation is used for magnitudes in [1e-4, 1e21).
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-4 && abs < 1e21) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	if mant, exp, ok := strings.Cut(s, "e"); ok && !strings.Contains(mant, ".") {
		return mant + ".0e" + exp
	}
	return s
}
