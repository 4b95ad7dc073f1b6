package silence

// Interval is a half-open range [Start, Stop) of sample indices.
type Interval struct {
	Start int
	Stop  int
}

// Len returns the number of samples covered by the interval.
func (iv Interval) Len() int {
	return iv.Stop - iv.Start
}

// Rectify returns a copy of samples with negative values clamped to zero.
func Rectify[S Sample](samples []S) []S {
	out := make([]S, len(samples))
	for i, v := range samples {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// Scan walks the rectified stream once and returns the silence intervals:
// runs of samples at or below threshold lasting at least minRun samples,
// shrunk by margin samples on each side.
//
// Runs whose margin-adjusted bounds meet or invert are dropped. The result
// is sorted by Start and never overlaps.
func Scan[S Sample](rectified []S, threshold S, minRun, margin int) []Interval {
	var (
		out      []Interval
		run      int  // consecutive samples at or below threshold
		runStart int  // index of the first sample of the current run
		open     bool // the last entry of out belongs to the current run
	)

	for i, v := range rectified {
		if v > threshold {
			run = 0
			open = false
			continue
		}

		if run == 0 {
			runStart = i
		}
		run++
		if run < minRun {
			continue
		}

		iv := Interval{Start: runStart + margin, Stop: i + 1 - margin}
		if iv.Start >= iv.Stop {
			// Not wide enough yet to survive the margin.
			continue
		}
		if open {
			out[len(out)-1].Stop = iv.Stop
		} else {
			out = append(out, iv)
			open = true
		}
	}

	return out
}
