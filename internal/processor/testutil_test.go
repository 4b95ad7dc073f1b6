package processor

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/linuxmatters/quietcut/internal/media"
	"github.com/linuxmatters/quietcut/internal/silence"
)

// TestAudioOptions configures the synthetic audio to generate
type TestAudioOptions struct {
	DurationSecs float64 // Total duration in seconds
	SampleRate   int     // Sample rate (default: 8000)
	Channels     int     // Interleaved channels (default: 2)
	ToneFreq     float64 // Sine wave frequency in Hz (0 = no tone)
	ToneLevel    float64 // Tone level in dBFS (e.g., -12.0)
	NoiseLevel   float64 // White noise level in dBFS (0 = no noise)
	Float        bool    // Produce 32-bit float samples instead of 16-bit ints
	SilenceGaps  []Gap   // Stretches of digital silence
}

// Gap is a stretch of digital silence in seconds
type Gap struct {
	Start    float64
	Duration float64
}

// generateTestBuffer creates a synthetic interleaved buffer: a tone with
// optional noise floor, and digital silence inside each gap.
func generateTestBuffer(t *testing.T, opts TestAudioOptions) *media.Buffer {
	t.Helper()

	if opts.SampleRate == 0 {
		opts.SampleRate = 8000
	}
	if opts.Channels == 0 {
		opts.Channels = 2
	}
	if opts.DurationSecs == 0 {
		opts.DurationSecs = 3.0
	}

	frames := int(opts.DurationSecs * float64(opts.SampleRate))
	total := frames * opts.Channels

	toneAmp := 0.0
	if opts.ToneFreq > 0 && opts.ToneLevel < 0 {
		toneAmp = math.Pow(10.0, opts.ToneLevel/20.0)
	}
	noiseAmp := 0.0
	if opts.NoiseLevel < 0 {
		noiseAmp = math.Pow(10.0, opts.NoiseLevel/20.0)
	}

	// Simple LCG for deterministic noise
	rngState := uint32(12345)
	nextRandom := func() float64 {
		rngState = rngState*1664525 + 1013904223
		return (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
	}

	inGap := func(frame int) bool {
		for _, g := range opts.SilenceGaps {
			start := int(g.Start * float64(opts.SampleRate))
			end := int((g.Start + g.Duration) * float64(opts.SampleRate))
			if frame >= start && frame < end {
				return true
			}
		}
		return false
	}

	values := make([]float64, total)
	for i := range values {
		frame := i / opts.Channels
		if inGap(frame) {
			continue
		}
		var v float64
		if toneAmp > 0 {
			ts := float64(frame) / float64(opts.SampleRate)
			v += toneAmp * math.Sin(2.0*math.Pi*opts.ToneFreq*ts)
		}
		if noiseAmp > 0 {
			v += noiseAmp * nextRandom()
		}
		values[i] = math.Max(-1, math.Min(1, v))
	}

	buf := &media.Buffer{Format: media.Format{
		Channels:   opts.Channels,
		SampleRate: opts.SampleRate,
	}}
	if opts.Float {
		buf.Format.BitDepth = 32
		buf.Format.Encoding = media.EncodingFloat
		buf.Floats = make([]float32, total)
		for i, v := range values {
			buf.Floats[i] = float32(v)
		}
	} else {
		buf.Format.BitDepth = 16
		buf.Format.Encoding = media.EncodingInt
		buf.Ints = make([]int, total)
		for i, v := range values {
			buf.Ints[i] = int(v * math.MaxInt16)
		}
	}
	return buf
}

// fakeCodec is an in-memory media.Codec. Decode returns a fixed buffer;
// Encode and Concat record what they were given.
type fakeCodec struct {
	input *media.Buffer

	decodeErr error
	cutErr    error
	failClip  int // clip index that returns cutErr, -1 for all

	mu       sync.Mutex
	encoded  map[string]*media.Buffer
	cuts     []silence.Clip
	concats  [][]string
	concatTo string
}

func newFakeCodec(input *media.Buffer) *fakeCodec {
	return &fakeCodec{input: input, encoded: map[string]*media.Buffer{}, failClip: -1}
}

func (f *fakeCodec) Decode(ctx context.Context, path string) (*media.Buffer, error) {
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	return f.input, nil
}

func (f *fakeCodec) Encode(ctx context.Context, buf *media.Buffer, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.encoded[path] = buf
	return nil
}

func (f *fakeCodec) CutClip(ctx context.Context, src string, clip silence.Clip) (string, error) {
	if f.cutErr != nil && (f.failClip < 0 || f.failClip == clip.Index) {
		return "", f.cutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cuts = append(f.cuts, clip)
	return fmt.Sprintf("clip_%04d.mp4", clip.Index), nil
}

func (f *fakeCodec) Concat(ctx context.Context, clips []string, out string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.concats = append(f.concats, slices.Clone(clips))
	f.concatTo = out
	return nil
}
