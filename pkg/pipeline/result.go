package pipeline

import (
	"time"

	"github.com/eunmann/content-filter/pkg/classify"
	"github.com/eunmann/content-filter/pkg/stats"
)

// Result is the outcome of a run.
type Result struct {
	Integers *stats.Numeric[int64]
	Floats   *stats.Numeric[float64]
	Strings  *stats.Text

	// Inputs lists every input in processing order.
	Inputs []InputResult
	// BlankLines counts lines that were empty after trimming.
	BlankLines int64
	// Removed lists output files deleted because their category was empty.
	Removed []string

	Started time.Time
	Elapsed time.Duration
}

// InputResult describes how one input was processed.
type InputResult struct {
	Name string
	// Lines counts lines read, including blank ones.
	Lines int64
	// Err is set when the input could not be opened or was only partly read.
	Err error
}

func newResult() *Result {
	return &Result{
		Integers: &stats.Numeric[int64]{},
		Floats:   &stats.Numeric[float64]{},
		Strings:  &stats.Text{},
	}
}

// Count returns the number of lines routed to c.
func (r *Result) Count(c classify.Category) uint64 {
	switch c {
	case classify.Integer:
		return r.Integers.Count()
	case classify.Float:
		return r.Floats.Count()
	case classify.String:
		return r.Strings.Count()
	default:
		return 0
	}
}

// Classified returns the number of non-blank lines across all categories.
func (r *Result) Classified() uint64 {
	var n uint64
	for _, c := range classify.Categories {
		n += r.Count(c)
	}
	return n
}

// Failed returns the inputs that could not be fully read.
func (r *Result) Failed() []InputResult {
	var failed []InputResult
	for _, in := range r.Inputs {
		if in.Err != nil {
			failed = append(failed, in)
		}
	}
	return failed
}
