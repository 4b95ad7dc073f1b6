// Package silence finds and removes silent passages in a sample stream.
//
// Detection works on a rectified copy of the stream: a percentile of the
// positive samples becomes the threshold, runs at or below it that last at
// least the minimum duration become silence intervals, and the complement
// of those intervals is kept. All functions are pure and operate on
// interleaved samples of any signed numeric type.
package silence

// samplesPerUnit is the fixed number of samples per rate unit. A duration
// of one second maps to rate*2 samples, which matches two interleaved
// channels at the given sampling rate.
const samplesPerUnit = 2

// SecondsToSamples converts a duration to a sample count, truncating
// toward zero.
func SecondsToSamples(seconds float64, sampleRate int) int {
	return int(seconds * float64(sampleRate) * samplesPerUnit)
}

// SamplesToSeconds converts a sample index back to seconds.
func SamplesToSeconds(index, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(index) / float64(sampleRate*samplesPerUnit)
}
