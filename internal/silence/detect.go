package silence

import "fmt"

// Params are the tunables of a detection run.
type Params struct {
	Percentile int     // threshold aggressiveness, 0-100
	MinSilence float64 // seconds; shorter quiet runs are kept
	Margin     float64 // seconds retained at each edge of a cut
}

// Validate checks the parameters against a sampling rate, since durations
// must survive conversion to at least one sample.
func (p Params) Validate(sampleRate int) error {
	if p.Percentile < 0 || p.Percentile > 100 {
		return fmt.Errorf("percentile %d outside [0,100]: %w", p.Percentile, ErrInvalidConfiguration)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("sampling rate %d: %w", sampleRate, ErrInvalidConfiguration)
	}
	if p.MinSilence <= 0 {
		return fmt.Errorf("minimum silence %gs must be positive: %w", p.MinSilence, ErrInvalidConfiguration)
	}
	if SecondsToSamples(p.MinSilence, sampleRate) < 1 {
		return fmt.Errorf("minimum silence %gs is shorter than one sample at %d Hz: %w",
			p.MinSilence, sampleRate, ErrInvalidConfiguration)
	}
	if p.Margin < 0 {
		return fmt.Errorf("margin %gs must not be negative: %w", p.Margin, ErrInvalidConfiguration)
	}
	return nil
}

// Detection is the outcome of analysing one stream.
type Detection[S Sample] struct {
	Threshold S
	Silences  []Interval
	Keeps     []Interval
	Total     int // samples in the input
	Kept      int // samples retained by Keeps
}

// Removed returns the number of samples cut.
func (d *Detection[S]) Removed() int {
	return d.Total - d.Kept
}

// Detect runs threshold estimation, scanning and keep-interval building
// over samples recorded at sampleRate.
func Detect[S Sample](samples []S, sampleRate int, p Params) (*Detection[S], error) {
	if err := p.Validate(sampleRate); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("stream has no samples: %w", ErrEmptyInputSignal)
	}

	threshold, err := Percentile(PositiveSamples(samples), p.Percentile)
	if err != nil {
		return nil, err
	}

	minRun := SecondsToSamples(p.MinSilence, sampleRate)
	margin := SecondsToSamples(p.Margin, sampleRate)
	silences := Scan(Rectify(samples), threshold, minRun, margin)

	keeps, err := Keep(silences, len(samples))
	if err != nil {
		return nil, err
	}

	return &Detection[S]{
		Threshold: threshold,
		Silences:  silences,
		Keeps:     keeps,
		Total:     len(samples),
		Kept:      TotalLen(keeps),
	}, nil
}
