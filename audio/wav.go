// Package audio turns caller-supplied WAV data into the decoded PCM clip the
// analysis pipeline consumes. Anything beyond WAV container reading (codecs,
// resampling) is out of scope.
package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// Clip is a decoded mono waveform.
type Clip struct {
	Samples    []float32 // PCM in [-1, 1]
	SampleRate int
}

// DurationSeconds returns the clip's true duration, including any leading or
// trailing silence.
func (c Clip) DurationSeconds() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// DecodeWAVFile decodes the WAV file at path.
func DecodeWAVFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	clip, err := DecodeWAV(f)
	if err != nil {
		return Clip{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return clip, nil
}

// DecodeWAV decodes a WAV stream into a normalized mono clip. Multi-channel
// input is downmixed by averaging channels.
func DecodeWAV(r io.ReadSeeker) (Clip, error) {
	d := wav.NewDecoder(r)

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("read pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.SampleRate <= 0 {
		return Clip{}, fmt.Errorf("invalid wav data")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += float32(buf.Data[i*channels+ch]) / scale
		}
		samples[i] = sum / float32(channels)
	}

	return Clip{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}
