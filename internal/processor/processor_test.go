package processor

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/linuxmatters/quietcut/internal/config"
	"github.com/linuxmatters/quietcut/internal/media"
	"github.com/linuxmatters/quietcut/internal/silence"
)

// newTestConfig returns a config isolated from application defaults
func newTestConfig() *config.Config {
	return &config.Config{
		Percentile: 85,
		MinSilence: 0.4,
		Margin:     0.15,
		Workers:    2,
		FFmpeg:     "ffmpeg",
	}
}

// speechWithGap is 3s of 8kHz stereo tone with one second of digital
// silence starting at 1.0s.
func speechWithGap(t *testing.T, float bool) *media.Buffer {
	t.Helper()
	return generateTestBuffer(t, TestAudioOptions{
		DurationSecs: 3.0,
		ToneFreq:     440,
		ToneLevel:    -12,
		Float:        float,
		SilenceGaps:  []Gap{{Start: 1.0, Duration: 1.0}},
	})
}

// Interleaved sample offsets at 8kHz stereo: 1s is 16000 samples and the
// 0.15s margin is 2400.
const (
	gapStart   = 16000
	gapStop    = 32000
	marginLen  = 2400
	edgeSlack  = 100 // negative half-cycles beside the gap rectify to zero
	testRate   = 8000
	totalInter = 48000
)

func TestProcessAudioPath(t *testing.T) {
	for _, float := range []bool{false, true} {
		name := "int16"
		if float {
			name = "float32"
		}
		t.Run(name, func(t *testing.T) {
			input := speechWithGap(t, float)
			codec := newFakeCodec(input)
			p := &Processor{Codec: codec, Config: newTestConfig()}

			result, err := p.Process(context.Background(), "episode.wav", "", nil)
			if err != nil {
				t.Fatalf("Process failed: %v", err)
			}

			if result.OutputPath != "episode-trimmed.wav" {
				t.Errorf("OutputPath = %q, want episode-trimmed.wav", result.OutputPath)
			}
			if result.Video {
				t.Error("audio input reported as video")
			}
			if len(result.Silences) != 1 {
				t.Fatalf("Silences = %v, want exactly one", result.Silences)
			}

			s := result.Silences[0]
			if s.Start < gapStart+marginLen-edgeSlack || s.Start > gapStart+marginLen {
				t.Errorf("silence start %d not near %d", s.Start, gapStart+marginLen)
			}
			if s.Stop < gapStop-marginLen || s.Stop > gapStop-marginLen+edgeSlack {
				t.Errorf("silence stop %d not near %d", s.Stop, gapStop-marginLen)
			}

			out, ok := codec.encoded["episode-trimmed.wav"]
			if !ok {
				t.Fatal("trimmed buffer was not encoded")
			}
			if out.Format != input.Format {
				t.Errorf("output format %+v, want %+v", out.Format, input.Format)
			}
			if out.Len() != result.KeptSamples {
				t.Errorf("output has %d samples, result says %d", out.Len(), result.KeptSamples)
			}
			if result.TotalSamples != totalInter {
				t.Errorf("TotalSamples = %d, want %d", result.TotalSamples, totalInter)
			}

			// The leading keep is a verbatim prefix of the input.
			head := result.Keeps[0].Stop
			if float {
				if out.Ints != nil || !slices.Equal(out.Floats[:head], input.Floats[:head]) {
					t.Error("float output does not carry the input prefix unchanged")
				}
			} else {
				if out.Floats != nil || !slices.Equal(out.Ints[:head], input.Ints[:head]) {
					t.Error("int output does not carry the input prefix unchanged")
				}
			}

			if got := result.InputDuration(); got != 3.0 {
				t.Errorf("InputDuration = %v, want 3.0", got)
			}
			removed := result.RemovedDuration()
			if math.Abs(removed-0.7) > 0.02 {
				t.Errorf("RemovedDuration = %v, want about 0.7s", removed)
			}
		})
	}
}

func TestProcessVideoPath(t *testing.T) {
	codec := newFakeCodec(speechWithGap(t, false))
	p := &Processor{Codec: codec, Config: newTestConfig()}

	result, err := p.Process(context.Background(), "talk.mp4", "talk-short.mp4", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !result.Video {
		t.Fatal("mp4 to mp4 should take the video path")
	}
	if len(codec.encoded) != 0 {
		t.Errorf("video path encoded audio: %v", codec.encoded)
	}
	if len(result.Clips) != 2 || len(codec.cuts) != 2 {
		t.Fatalf("clips = %v, cuts = %v, want 2 each", result.Clips, codec.cuts)
	}

	if result.Clips[0].Start != 0 {
		t.Errorf("first clip starts at %v, want 0", result.Clips[0].Start)
	}
	wantSecondStart := float64(gapStop-marginLen) / float64(testRate*2)
	if math.Abs(result.Clips[1].Start-wantSecondStart) > 0.01 {
		t.Errorf("second clip starts at %v, want about %v", result.Clips[1].Start, wantSecondStart)
	}

	if len(codec.concats) != 1 {
		t.Fatalf("Concat called %d times, want 1", len(codec.concats))
	}
	wantOrder := []string{"clip_0000.mp4", "clip_0001.mp4"}
	if !slices.Equal(codec.concats[0], wantOrder) {
		t.Errorf("concat order = %v, want %v", codec.concats[0], wantOrder)
	}
	if codec.concatTo != "talk-short.mp4" {
		t.Errorf("concat output = %q", codec.concatTo)
	}
}

func TestProcessVideoToAudio(t *testing.T) {
	codec := newFakeCodec(speechWithGap(t, false))
	p := &Processor{Codec: codec, Config: newTestConfig()}

	result, err := p.Process(context.Background(), "talk.mp4", "talk.wav", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Video || len(codec.cuts) != 0 {
		t.Error("mp4 to wav should only trim the audio")
	}
	if _, ok := codec.encoded["talk.wav"]; !ok {
		t.Error("audio was not encoded to talk.wav")
	}
}

func TestProcessCutFailure(t *testing.T) {
	codec := newFakeCodec(speechWithGap(t, false))
	codec.cutErr = &media.ToolError{Tool: "ffmpeg", Err: errors.New("exit status 1")}
	codec.failClip = 1
	p := &Processor{Codec: codec, Config: newTestConfig()}

	_, err := p.Process(context.Background(), "talk.mp4", "out.mp4", nil)
	if !errors.Is(err, media.ErrExternalTool) {
		t.Fatalf("Process error = %v, want ErrExternalTool", err)
	}
	if len(codec.concats) != 0 {
		t.Error("Concat ran after a failed cut")
	}
}

func TestProcessErrors(t *testing.T) {
	tone := generateTestBuffer(t, TestAudioOptions{ToneFreq: 440, ToneLevel: -12})
	silent := generateTestBuffer(t, TestAudioOptions{})

	tests := []struct {
		name   string
		input  *media.Buffer
		decErr error
		mutate func(*config.Config)
		in     string
		out    string
		want   error
	}{
		{name: "digital_silence", input: silent, in: "a.wav", want: silence.ErrEmptyInputSignal},
		{name: "bad_percentile", input: tone, in: "a.wav", mutate: func(c *config.Config) { c.Percentile = 101 }, want: silence.ErrInvalidConfiguration},
		{name: "audio_to_video", input: tone, in: "a.wav", out: "a.mp4", want: silence.ErrInvalidConfiguration},
		{name: "overwrite_input", input: tone, in: "a.wav", out: "a.wav", want: silence.ErrInvalidConfiguration},
		{name: "decode_failure", decErr: &media.ToolError{Tool: "ffmpeg", Err: errors.New("boom")}, in: "a.flac", want: media.ErrExternalTool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := newFakeCodec(tt.input)
			codec.decodeErr = tt.decErr
			cfg := newTestConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			p := &Processor{Codec: codec, Config: cfg}

			_, err := p.Process(context.Background(), tt.in, tt.out, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Process error = %v, want %v", err, tt.want)
			}
			if len(codec.encoded) != 0 {
				t.Error("failed run still encoded output")
			}
		})
	}
}

func TestProcessNoSilenceKeepsEverything(t *testing.T) {
	input := generateTestBuffer(t, TestAudioOptions{ToneFreq: 440, ToneLevel: -12})
	codec := newFakeCodec(input)
	p := &Processor{Codec: codec, Config: newTestConfig()}

	result, err := p.Process(context.Background(), "tone.wav", "tone-out.wav", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.Silences) != 0 {
		t.Errorf("Silences = %v, want none", result.Silences)
	}
	if !slices.Equal(codec.encoded["tone-out.wav"].Ints, input.Ints) {
		t.Error("output differs from input with nothing to cut")
	}
}

func TestProcessProgressStages(t *testing.T) {
	codec := newFakeCodec(speechWithGap(t, false))
	p := &Processor{Codec: codec, Config: newTestConfig()}

	var (
		mu     sync.Mutex
		stages []Stage
	)
	_, err := p.Process(context.Background(), "e.wav", "", func(stage Stage, progress float64) {
		mu.Lock()
		defer mu.Unlock()
		if len(stages) == 0 || stages[len(stages)-1] != stage {
			stages = append(stages, stage)
		}
		if progress < 0 || progress > 1 {
			t.Errorf("progress %v out of range for %s", progress, stage)
		}
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	want := []Stage{StageDecoding, StageAnalysing, StageAssembling, StageEncoding}
	if !slices.Equal(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		input  string
		output string
		want   string
	}{
		{"default_beside_input", "/srv/pod/ep1.wav", "", "/srv/pod/ep1-trimmed.wav"},
		{"explicit_file", "/srv/pod/ep1.mp4", "/tmp/cut.mp4", "/tmp/cut.mp4"},
		{"into_directory", "/srv/pod/ep1.flac", dir, filepath.Join(dir, "ep1-trimmed.flac")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath(tt.input, tt.output)
			if err != nil {
				t.Fatalf("OutputPath error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
			}
		})
	}
}

// TestRunWAV exercises the real codec on a WAV file; no ffmpeg binary is
// needed because WAV is handled natively.
func TestRunWAV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "speech.wav")
	if err := media.WriteWAV(input, speechWithGap(t, false)); err != nil {
		t.Fatalf("failed to write test WAV: %v", err)
	}

	cfg := newTestConfig()
	cfg.TempDir = dir
	result, err := Run(context.Background(), cfg, input, "", nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out, err := media.ReadWAV(result.OutputPath)
	if err != nil {
		t.Fatalf("failed to read trimmed output: %v", err)
	}
	if out.Len() != result.KeptSamples {
		t.Errorf("trimmed file has %d samples, want %d", out.Len(), result.KeptSamples)
	}

	// Only the input and output remain; the workspace is gone.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("temp dir contains %v, want only input and output", names)
	}
}
