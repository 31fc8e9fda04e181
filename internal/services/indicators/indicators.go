// Package indicators provides pure, stateless transforms over price and
// volume sequences. Every Calculate call returns a slice aligned 1:1 with
// its input; warm-up entries where insufficient history exists are NaN,
// never zero. Callers must treat NaN as "no signal".
package indicators

import "math"

// nanSlice returns a slice of length n filled with NaN. Calculations
// overwrite the defined region and leave the warm-up prefix untouched.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Defined reports whether an indicator value is usable (past warm-up).
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// firstDefined returns the index of the first non-NaN value, or -1.
func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
