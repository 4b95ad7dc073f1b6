package silence

// Clip is one kept interval expressed in seconds, for cutting a companion
// video track. Index is the clip's position in the final concatenation.
type Clip struct {
	Index    int
	Start    float64
	Duration float64
}

// Assemble concatenates the kept ranges of samples in order. Values are
// copied verbatim.
func Assemble[S Sample](samples []S, keeps []Interval) []S {
	out := make([]S, 0, TotalLen(keeps))
	for _, k := range keeps {
		out = append(out, samples[k.Start:k.Stop]...)
	}
	return out
}

// Clips converts keep intervals to start/duration pairs at sampleRate.
func Clips(keeps []Interval, sampleRate int) []Clip {
	clips := make([]Clip, len(keeps))
	for i, k := range keeps {
		start := SamplesToSeconds(k.Start, sampleRate)
		stop := SamplesToSeconds(k.Stop, sampleRate)
		clips[i] = Clip{Index: i, Start: start, Duration: stop - start}
	}
	return clips
}
