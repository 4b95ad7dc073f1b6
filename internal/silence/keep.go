package silence

import "fmt"

// Keep inverts sorted, non-overlapping silence intervals over a stream of n
// samples into the intervals to retain. Zero-length gaps are omitted.
//
// With no silence the whole stream [0, n) is kept. An inversion that keeps
// no samples at all is reported as ErrDegenerateIntervalSet rather than
// producing an empty output.
func Keep(silences []Interval, n int) ([]Interval, error) {
	if n <= 0 {
		return nil, fmt.Errorf("stream has no samples: %w", ErrEmptyInputSignal)
	}
	if len(silences) == 0 {
		return []Interval{{Start: 0, Stop: n}}, nil
	}

	keeps := make([]Interval, 0, len(silences)+1)
	prev := 0
	for i, s := range silences {
		if s.Start < prev || s.Start >= s.Stop || s.Stop > n {
			return nil, fmt.Errorf("silence interval %d [%d,%d) invalid after offset %d in %d samples: %w",
				i, s.Start, s.Stop, prev, n, ErrDegenerateIntervalSet)
		}
		if s.Start > prev {
			keeps = append(keeps, Interval{Start: prev, Stop: s.Start})
		}
		prev = s.Stop
	}
	if prev < n {
		keeps = append(keeps, Interval{Start: prev, Stop: n})
	}

	if len(keeps) == 0 {
		return nil, fmt.Errorf("entire stream of %d samples is silent: %w", n, ErrDegenerateIntervalSet)
	}
	return keeps, nil
}

// TotalLen sums the lengths of the intervals.
func TotalLen(intervals []Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.Len()
	}
	return total
}
