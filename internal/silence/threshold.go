package silence

import (
	"fmt"
	"slices"
)

// Sample is the set of numeric types a stream can carry. Integer PCM is
// decoded as int; IEEE float PCM as float32.
type Sample interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// PositiveSamples returns the values strictly greater than zero, in input
// order. Duplicates are retained.
func PositiveSamples[S Sample](samples []S) []S {
	out := make([]S, 0, len(samples)/2)
	for _, v := range samples {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// Percentile returns the q-th percentile of values using the index
// q*(n+1)/100 into the sorted set, clamped to the last element.
// The input slice is not modified.
func Percentile[S Sample](values []S, q int) (S, error) {
	var zero S
	if q < 0 || q > 100 {
		return zero, fmt.Errorf("percentile %d outside [0,100]: %w", q, ErrInvalidConfiguration)
	}
	n := len(values)
	if n == 0 {
		return zero, fmt.Errorf("no positive samples to estimate threshold: %w", ErrEmptyInputSignal)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := q * (n + 1) / 100
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx], nil
}
