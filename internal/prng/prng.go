// Package prng provides a stateless, seed-addressed pseudo random source.
//
// Every draw is a pure function of its seed, so callers derive one seed per
// value they need (base, base+1, base+2, ...) instead of advancing a stream.
package prng

import "math"

// Uniform returns frac(sin(seed) * 10000), a value in [0, 1)
func Uniform(seed int64) float64 {
	x := math.Sin(float64(seed)) * 10000
	f := x - math.Floor(x)
	if f >= 1 {
		// guards the rounding edge where x is a tiny negative number
		return 0
	}
	return f
}

// Seq addresses a family of draws derived from one base seed
type Seq struct {
	Base int64
}

// New returns a Seq rooted at base
func New(base int64) Seq {
	return Seq{Base: base}
}

// At returns the uniform draw at base+offset
func (s Seq) At(offset int64) float64 {
	return Uniform(s.Base + offset)
}

// Intn returns floor(At(offset) * n), in [0, n). n <= 0 yields 0.
func (s Seq) Intn(offset int64, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(math.Floor(s.At(offset) * float64(n)))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns an integer in [lo, hi] inclusive
func (s Seq) Between(offset int64, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.Intn(offset, hi-lo+1)
}

// Pick returns the item chosen by the draw at offset, or the zero value for
// an empty slice.
func Pick[T any](s Seq, offset int64, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.Intn(offset, len(items))]
}
