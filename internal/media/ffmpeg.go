package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/linuxmatters/quietcut/internal/silence"
	"go.uber.org/zap"
)

// FFmpeg implements Codec. WAV files are handled natively; anything else is
// converted through the ffmpeg binary, with intermediates kept in the
// workspace.
type FFmpeg struct {
	run       Runner
	workspace *Workspace

	// ClipArgs are passed to ffmpeg when encoding each video clip,
	// e.g. []string{"-c:v", "libx264", "-crf", "18"}.
	ClipArgs []string
}

// NewFFmpeg returns a Codec using the ffmpeg binary at path (looked up on
// $PATH when bare) and storing intermediates in ws.
func NewFFmpeg(binary string, ws *Workspace, log *zap.SugaredLogger) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FFmpeg{
		run:       Runner{Binary: binary, Log: log},
		workspace: ws,
	}
}

// Decode reads the audio track of path. Video containers are downmixed to
// 16-bit stereo, the layout the sample-unit convention assumes; other audio
// containers are widened to 32-bit integer PCM so no precision is lost.
func (c *FFmpeg) Decode(ctx context.Context, path string) (*Buffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	if IsWAV(path) {
		return ReadWAV(path)
	}

	out := c.workspace.Path("source.wav")
	args := []string{"-y", "-v", "error", "-i", path, "-vn"}
	if IsVideo(path) {
		args = append(args, "-ac", "2", "-c:a", "pcm_s16le")
	} else {
		args = append(args, "-c:a", "pcm_s32le")
	}
	args = append(args, "-f", "wav", out)

	if err := c.run.Run(ctx, args...); err != nil {
		return nil, fmt.Errorf("failed to extract audio from %s: %w", path, err)
	}
	return ReadWAV(out)
}

// Encode writes buf to path. Non-WAV targets are written to a workspace WAV
// first and transcoded by ffmpeg according to the target extension.
func (c *FFmpeg) Encode(ctx context.Context, buf *Buffer, path string) error {
	if IsWAV(path) {
		return WriteWAV(path, buf)
	}

	tmp := c.workspace.Path("trimmed.wav")
	if err := WriteWAV(tmp, buf); err != nil {
		return err
	}
	if err := c.run.Run(ctx, "-y", "-v", "error", "-i", tmp, path); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// CutClip re-encodes clip's time range of src into the workspace.
func (c *FFmpeg) CutClip(ctx context.Context, src string, clip silence.Clip) (string, error) {
	out := c.workspace.Path(fmt.Sprintf("clip_%04d%s", clip.Index, filepath.Ext(src)))

	args := []string{"-y", "-v", "error",
		"-ss", formatSeconds(clip.Start),
		"-i", src,
		"-t", formatSeconds(clip.Duration),
	}
	args = append(args, c.ClipArgs...)
	args = append(args, out)

	if err := c.run.Run(ctx, args...); err != nil {
		return "", fmt.Errorf("failed to cut clip %d: %w", clip.Index, err)
	}
	return out, nil
}

// Concat joins clips with the concat demuxer, copying streams.
func (c *FFmpeg) Concat(ctx context.Context, clips []string, out string) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to concatenate into %s", out)
	}

	list := c.workspace.Path("concat.txt")
	if err := os.WriteFile(list, []byte(ConcatList(clips)), 0o600); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}

	err := c.run.Run(ctx, "-y", "-v", "error",
		"-f", "concat", "-safe", "0",
		"-i", list,
		"-c", "copy",
		out,
	)
	if err != nil {
		return fmt.Errorf("failed to concatenate %d clips: %w", len(clips), err)
	}
	return nil
}

// ConcatList renders the concat demuxer script for clips.
func ConcatList(clips []string) string {
	var sb strings.Builder
	for _, clip := range clips {
		// The demuxer quotes with single quotes; embedded ones close,
		// escape and reopen.
		escaped := strings.ReplaceAll(clip, "'", `'\''`)
		sb.WriteString("file '")
		sb.WriteString(escaped)
		sb.WriteString("'\n")
	}
	return sb.String()
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 6, 64)
}
