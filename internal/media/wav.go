package media

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/linuxmatters/quietcut/internal/silence"
)

// WAV format tags from the fmt chunk
const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// ErrUnsupportedFormat reports a WAV layout this package cannot carry
// losslessly.
var ErrUnsupportedFormat = errors.New("unsupported sample format")

// pcm8Offset is the zero level of 8-bit WAV, which stores unsigned bytes.
const pcm8Offset = 128

// ReadWAV decodes a PCM or 32-bit IEEE float WAV file.
//
// Float samples are read through the integer decoder as raw 32-bit words and
// reinterpreted, which keeps every value bit-exact. 8-bit PCM is re-centred
// on zero like every other depth.
func ReadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		// The headers parsed but the data chunk holds nothing.
		if dec.Err() == nil && dec.NumChans >= 1 && dec.BitDepth >= 8 {
			return nil, fmt.Errorf("no audio data in %s: %w", path, silence.ErrEmptyInputSignal)
		}
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	format := Format{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}
	switch dec.WavAudioFormat {
	case wavFormatPCM:
		format.Encoding = EncodingInt
	case wavFormatIEEEFloat:
		if format.BitDepth != 32 {
			return nil, fmt.Errorf("%d-bit float in %s: %w", format.BitDepth, path, ErrUnsupportedFormat)
		}
		format.Encoding = EncodingFloat
	default:
		return nil, fmt.Errorf("WAV format tag %d in %s: %w", dec.WavAudioFormat, path, ErrUnsupportedFormat)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data from %s: %w", path, err)
	}
	if len(pcm.Data) == 0 {
		return nil, fmt.Errorf("no audio data in %s: %w", path, silence.ErrEmptyInputSignal)
	}

	buf := &Buffer{Format: format}
	if format.Encoding == EncodingFloat {
		buf.Floats = make([]float32, len(pcm.Data))
		for i, v := range pcm.Data {
			buf.Floats[i] = math.Float32frombits(uint32(int32(v)))
		}
	} else {
		buf.Ints = pcm.Data
		if format.BitDepth == 8 {
			for i := range buf.Ints {
				buf.Ints[i] -= pcm8Offset
			}
		}
	}
	return buf, nil
}

// WriteWAV encodes buf to path with the same channel count, rate, bit depth
// and encoding.
func WriteWAV(path string, buf *Buffer) error {
	format := buf.Format
	tag := wavFormatPCM
	data := buf.Ints
	if format.Encoding == EncodingFloat {
		if format.BitDepth != 32 {
			return fmt.Errorf("%d-bit float output: %w", format.BitDepth, ErrUnsupportedFormat)
		}
		tag = wavFormatIEEEFloat
		data = make([]int, len(buf.Floats))
		for i, v := range buf.Floats {
			data[i] = int(int32(math.Float32bits(v)))
		}
	} else if format.BitDepth == 8 {
		data = make([]int, len(buf.Ints))
		for i, v := range buf.Ints {
			data[i] = v + pcm8Offset
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, format.SampleRate, format.BitDepth, format.Channels, tag)
	pcm := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: format.BitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		f.Close()
		return fmt.Errorf("failed to write samples to %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalise %s: %w", path, err)
	}
	return f.Close()
}
