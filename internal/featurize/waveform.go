package featurize

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
)

// ChannelAverage selects the mean across channels instead of a single one.
const ChannelAverage = "average"

// WaveformOptions configures audio decoding.
type WaveformOptions struct {
	// SampleRate is the pipeline rate in Hz. Decoded audio at a different
	// native rate is linearly resampled. Required.
	SampleRate int
	// IntValues keeps raw integer sample values instead of normalizing to
	// [-1, 1].
	IntValues bool
	// Channel selects the source channel: empty for the first channel, a
	// decimal index, or ChannelAverage for the cross-channel mean.
	Channel string
}

// Waveform decodes WAV media into mono float32 waveforms.
type Waveform struct {
	sampleRate int
	intValues  bool
	channel    int
	average    bool
}

// NewWaveform validates options and builds a featurizer.
func NewWaveform(opts WaveformOptions) (*Waveform, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("featurize: sample rate must be positive, got %d", opts.SampleRate)
	}
	w := &Waveform{sampleRate: opts.SampleRate, intValues: opts.IntValues}
	switch selector := strings.TrimSpace(opts.Channel); selector {
	case "":
	case ChannelAverage:
		w.average = true
	default:
		idx, err := strconv.Atoi(selector)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("featurize: invalid channel selector %q", opts.Channel)
		}
		w.channel = idx
	}
	return w, nil
}

// SampleRate returns the pipeline rate in Hz.
func (w *Waveform) SampleRate() int {
	return w.sampleRate
}

// Process decodes the WAV file at path and applies the offset/duration
// window in seconds. A duration of 0 keeps everything from offset onward.
func (w *Waveform) Process(path string, offset, duration float64) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("featurize: open audio %q: %w", path, err)
	}
	defer file.Close()
	out, err := w.decode(file, offset, duration)
	if err != nil {
		return nil, fmt.Errorf("featurize: decode %q: %w", path, err)
	}
	return out, nil
}

// ProcessBytes decodes WAV media held in memory, as streamed from a shard.
func (w *Waveform) ProcessBytes(payload []byte, offset, duration float64) ([]float32, error) {
	out, err := w.decode(bytes.NewReader(payload), offset, duration)
	if err != nil {
		return nil, fmt.Errorf("featurize: decode audio bytes: %w", err)
	}
	return out, nil
}

func (w *Waveform) decode(rs io.ReadSeeker, offset, duration float64) ([]float32, error) {
	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file")
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("missing format metadata")
	}

	channels := buf.Format.NumChannels
	nativeRate := buf.Format.SampleRate
	if nativeRate <= 0 {
		return nil, fmt.Errorf("missing sample rate")
	}
	if !w.average && w.channel >= channels {
		return nil, fmt.Errorf("channel %d out of range for %d-channel audio", w.channel, channels)
	}

	frames := len(buf.Data) / channels
	mono := make([]float32, frames)
	if w.average {
		scale := 1 / float32(channels)
		for i := 0; i < frames; i++ {
			var sum float32
			for c := 0; c < channels; c++ {
				sum += float32(buf.Data[i*channels+c])
			}
			mono[i] = sum * scale
		}
	} else {
		for i := 0; i < frames; i++ {
			mono[i] = float32(buf.Data[i*channels+w.channel])
		}
	}

	if !w.intValues {
		bitDepth := buf.SourceBitDepth
		if bitDepth <= 0 {
			bitDepth = 16
		}
		scale := 1 / float32(int64(1)<<(bitDepth-1))
		for i := range mono {
			mono[i] *= scale
		}
	}

	if nativeRate != w.sampleRate {
		mono = Resample(mono, nativeRate, w.sampleRate)
	}

	return window(mono, w.sampleRate, offset, duration), nil
}

// window slices the waveform to the manifest's offset/duration in seconds.
func window(samples []float32, rate int, offset, duration float64) []float32 {
	start := int(offset * float64(rate))
	if start < 0 {
		start = 0
	}
	if start >= len(samples) {
		return nil
	}
	end := len(samples)
	if duration > 0 {
		if n := int(duration * float64(rate)); start+n < end {
			end = start + n
		}
	}
	return samples[start:end]
}
