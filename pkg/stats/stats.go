// Package stats provides running statistics for classified lines.
//
// Accumulators are append-only and not safe for concurrent use; a pipeline
// run owns them exclusively.
package stats

import (
	"math/big"
	"unicode/utf8"
)

// Number is the value domain of a Numeric accumulator.
type Number interface {
	int64 | float64
}

// Numeric tracks count, min, max and sum for a stream of numbers.
// The sum is exact, so it does not depend on the order values are added
// and integer sums cannot overflow.
type Numeric[T Number] struct {
	count uint64
	min   T
	max   T
	sum   big.Rat
}

// Add records v.
func (n *Numeric[T]) Add(v T) {
	if n.count == 0 || v < n.min {
		n.min = v
	}
	if n.count == 0 || v > n.max {
		n.max = v
	}
	n.count++
	n.sum.Add(&n.sum, toRat(v))
}

// Count returns the number of values added.
func (n *Numeric[T]) Count() uint64 { return n.count }

// Min returns the smallest value, or 0 if nothing was added.
func (n *Numeric[T]) Min() T {
	if n.count == 0 {
		return 0
	}
	return n.min
}

// Max returns the largest value, or 0 if nothing was added.
func (n *Numeric[T]) Max() T {
	if n.count == 0 {
		return 0
	}
	return n.max
}

// Sum returns a copy of the exact running total.
func (n *Numeric[T]) Sum() *big.Rat {
	return new(big.Rat).Set(&n.sum)
}

// SumFloat64 returns the running total rounded to the nearest float64.
func (n *Numeric[T]) SumFloat64() float64 {
	f, _ := n.sum.Float64()
	return f
}

// Average returns sum/count, or 0 if nothing was added.
func (n *Numeric[T]) Average() float64 {
	if n.count == 0 {
		return 0
	}
	var q big.Rat
	q.SetUint64(n.count)
	q.Quo(&n.sum, &q)
	f, _ := q.Float64()
	return f
}

func toRat[T Number](v T) *big.Rat {
	switch x := any(v).(type) {
	case int64:
		return new(big.Rat).SetInt64(x)
	case float64:
		// Values are finite; the classifier rejects out-of-range literals.
		if r := new(big.Rat).SetFloat64(x); r != nil {
			return r
		}
		return new(big.Rat)
	}
	return new(big.Rat)
}

// Text tracks count and min/max length for a stream of strings.
// Length is measured in Unicode code points.
type Text struct {
	count     uint64
	minLength int
	maxLength int
}

// Add records s.
func (t *Text) Add(s string) {
	n := utf8.RuneCountInString(s)
	if t.count == 0 || n < t.minLength {
		t.minLength = n
	}
	if t.count == 0 || n > t.maxLength {
		t.maxLength = n
	}
	t.count++
}

// Count returns the number of strings added.
func (t *Text) Count() uint64 { return t.count }

// MinLength returns the shortest length seen, or 0 if nothing was added.
func (t *Text) MinLength() int {
	if t.count == 0 {
		return 0
	}
	return t.minLength
}

// MaxLength returns the longest length seen, or 0 if nothing was added.
func (t *Text) MaxLength() int {
	if t.count == 0 {
		return 0
	}
	return t.maxLength
}
