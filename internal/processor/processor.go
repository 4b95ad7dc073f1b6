// Package processor trims silence from recordings: decode, detect, then
// either re-assemble the audio or cut and join the companion video.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/linuxmatters/quietcut/internal/config"
	"github.com/linuxmatters/quietcut/internal/media"
	"github.com/linuxmatters/quietcut/internal/silence"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage identifies a step of processing one file
type Stage int

const (
	StageDecoding Stage = iota
	StageAnalysing
	StageAssembling
	StageCutting
	StageEncoding
)

func (s Stage) String() string {
	switch s {
	case StageDecoding:
		return "Decoding"
	case StageAnalysing:
		return "Analysing"
	case StageAssembling:
		return "Assembling"
	case StageCutting:
		return "Cutting"
	case StageEncoding:
		return "Encoding"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ProgressFunc receives stage transitions and progress within a stage
// (0.0 to 1.0). It may be called from several goroutines during cutting.
type ProgressFunc func(stage Stage, progress float64)

// Result describes a completed trim
type Result struct {
	RunID      string
	InputPath  string
	OutputPath string
	Video      bool

	Format    media.Format
	Threshold float64

	Silences []silence.Interval
	Keeps    []silence.Interval
	Clips    []silence.Clip

	TotalSamples int
	KeptSamples  int
}

// InputDuration returns the analysed input length in seconds.
func (r *Result) InputDuration() float64 {
	return samplesToDuration(r.TotalSamples, r.Format)
}

// OutputDuration returns the trimmed length in seconds.
func (r *Result) OutputDuration() float64 {
	return samplesToDuration(r.KeptSamples, r.Format)
}

// RemovedDuration returns the seconds of silence cut.
func (r *Result) RemovedDuration() float64 {
	return r.InputDuration() - r.OutputDuration()
}

func samplesToDuration(n int, f media.Format) float64 {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	return float64(n) / float64(f.SampleRate*f.Channels)
}

// Processor trims files using an injected Codec
type Processor struct {
	Codec  media.Codec
	Config *config.Config
	Log    *zap.SugaredLogger
}

// Run trims one file using ffmpeg, inside a workspace that is removed before
// Run returns.
func Run(ctx context.Context, cfg *config.Config, inputPath, outputPath string, log *zap.SugaredLogger, progress ProgressFunc) (*Result, error) {
	ws, err := media.NewWorkspace(cfg.TempDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Close(); err != nil && log != nil {
			log.Warnw("workspace cleanup failed", "error", err)
		}
	}()

	codec := media.NewFFmpeg(cfg.FFmpeg, ws, log)
	codec.ClipArgs = cfg.ClipArgs

	p := &Processor{Codec: codec, Config: cfg, Log: log}
	return p.Process(ctx, inputPath, outputPath, progress)
}

// Process trims inputPath into outputPath. When outputPath is empty the
// result is written beside the input as <base>-trimmed<ext>.
//
// Video is cut only when both paths are video containers; otherwise the
// audio track alone is trimmed. Nothing is written on failure beyond what
// the codec leaves in its workspace.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) (*Result, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(Stage, float64) {}
	}

	outputPath, err := OutputPath(inputPath, outputPath)
	if err != nil {
		return nil, err
	}
	if !media.IsVideo(inputPath) && media.IsVideo(outputPath) {
		return nil, fmt.Errorf("cannot write video %s from audio-only input %s: %w",
			outputPath, inputPath, silence.ErrInvalidConfiguration)
	}

	result := &Result{
		RunID:      uuid.NewString(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Video:      media.IsVideo(inputPath) && media.IsVideo(outputPath),
	}
	log := p.logger().With("run", result.RunID, "input", inputPath)

	progress(StageDecoding, 0)
	buf, err := p.Codec.Decode(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	result.Format = buf.Format
	progress(StageDecoding, 1)
	log.Debugw("decoded", "samples", buf.Len(), "rate", buf.Format.SampleRate,
		"channels", buf.Format.Channels, "bits", buf.Format.BitDepth, "encoding", buf.Format.Encoding)

	progress(StageAnalysing, 0)
	var assemble func() *media.Buffer
	switch buf.Format.Encoding {
	case media.EncodingFloat:
		det, err := silence.Detect(buf.Floats, buf.Format.SampleRate, p.Config.Params())
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}
		applyDetection(result, det)
		assemble = func() *media.Buffer {
			return &media.Buffer{Format: buf.Format, Floats: silence.Assemble(buf.Floats, det.Keeps)}
		}
	default:
		det, err := silence.Detect(buf.Ints, buf.Format.SampleRate, p.Config.Params())
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}
		applyDetection(result, det)
		assemble = func() *media.Buffer {
			return &media.Buffer{Format: buf.Format, Ints: silence.Assemble(buf.Ints, det.Keeps)}
		}
	}
	progress(StageAnalysing, 1)
	log.Debugw("detected", "threshold", result.Threshold, "silences", len(result.Silences),
		"keeps", len(result.Keeps), "kept", result.KeptSamples, "total", result.TotalSamples)

	if result.Video {
		result.Clips = silence.Clips(result.Keeps, buf.Format.SampleRate)
		if err := p.cutVideo(ctx, result, progress); err != nil {
			return nil, err
		}
	} else {
		progress(StageAssembling, 0)
		trimmed := assemble()
		progress(StageAssembling, 1)

		progress(StageEncoding, 0)
		if err := p.Codec.Encode(ctx, trimmed, outputPath); err != nil {
			return nil, fmt.Errorf("encode failed: %w", err)
		}
		progress(StageEncoding, 1)
	}

	log.Infow("trimmed", "output", outputPath, "removed_secs", result.RemovedDuration())
	return result, nil
}

func applyDetection[S silence.Sample](r *Result, det *silence.Detection[S]) {
	r.Threshold = float64(det.Threshold)
	r.Silences = det.Silences
	r.Keeps = det.Keeps
	r.TotalSamples = det.Total
	r.KeptSamples = det.Kept
}

// cutVideo cuts every clip concurrently, then concatenates them in index
// order. The first failure cancels the remaining cuts.
func (p *Processor) cutVideo(ctx context.Context, result *Result, progress ProgressFunc) error {
	clips := result.Clips
	paths := make([]string, len(clips))

	var (
		done int64
		mu   sync.Mutex // serialises progress callbacks
	)
	progress(StageCutting, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)
	for _, clip := range clips {
		clip := clip
		g.Go(func() error {
			path, err := p.Codec.CutClip(gctx, result.InputPath, clip)
			if err != nil {
				return err
			}
			paths[clip.Index] = path

			n := atomic.AddInt64(&done, 1)
			mu.Lock()
			progress(StageCutting, float64(n)/float64(len(clips)))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("cutting failed: %w", err)
	}

	progress(StageEncoding, 0)
	if err := p.Codec.Concat(ctx, paths, result.OutputPath); err != nil {
		return fmt.Errorf("concatenation failed: %w", err)
	}
	progress(StageEncoding, 1)
	return nil
}

func (p *Processor) logger() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}

// OutputPath resolves where the trimmed file for inputPath goes. An empty
// output means <base>-trimmed<ext> beside the input; an existing directory
// receives that name inside it.
func OutputPath(inputPath, output string) (string, error) {
	ext := filepath.Ext(inputPath)
	name := strings.TrimSuffix(filepath.Base(inputPath), ext) + "-trimmed" + ext

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), name), nil
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name), nil
	}

	in, errIn := filepath.Abs(inputPath)
	out, errOut := filepath.Abs(output)
	if errIn == nil && errOut == nil && in == out {
		return "", fmt.Errorf("output %s would overwrite input: %w", output, silence.ErrInvalidConfiguration)
	}
	return output, nil
}
