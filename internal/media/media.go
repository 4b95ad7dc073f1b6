// Package media decodes recordings into raw samples and writes trimmed
// results back out, delegating container work to ffmpeg.
package media

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/quietcut/internal/silence"
)

// Encoding is the numeric representation of decoded samples.
type Encoding int

const (
	EncodingInt Encoding = iota
	EncodingFloat
)

func (e Encoding) String() string {
	if e == EncodingFloat {
		return "float"
	}
	return "int"
}

// Format describes a decoded sample stream
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int
	Encoding   Encoding
}

// Buffer holds a decoded, interleaved sample stream. Ints is populated for
// EncodingInt and Floats for EncodingFloat; the other is nil.
type Buffer struct {
	Format Format
	Ints   []int
	Floats []float32
}

// Len returns the number of interleaved samples.
func (b *Buffer) Len() int {
	if b.Format.Encoding == EncodingFloat {
		return len(b.Floats)
	}
	return len(b.Ints)
}

// Duration returns the stream length in seconds.
func (b *Buffer) Duration() float64 {
	if b.Format.SampleRate <= 0 || b.Format.Channels <= 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.Format.SampleRate*b.Format.Channels)
}

// Codec is the capability set the processor needs from the outside world.
// Implementations own any temporary files they create.
type Codec interface {
	// Decode reads the audio of path into memory.
	Decode(ctx context.Context, path string) (*Buffer, error)
	// Encode writes buf to path, using the same format.
	Encode(ctx context.Context, buf *Buffer, path string) error
	// CutClip extracts clip from the video at src and returns the
	// path of the temporary clip file.
	CutClip(ctx context.Context, src string, clip silence.Clip) (string, error)
	// Concat joins clips, in order, into out.
	Concat(ctx context.Context, clips []string, out string) error
}

var videoExts = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
}

// IsVideo reports whether path has a video container extension.
func IsVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// IsWAV reports whether path has a WAV extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
