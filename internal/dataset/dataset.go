package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"avstream/internal/align"
	"avstream/internal/featurize"
	"avstream/internal/logging"
	"avstream/internal/manifest"
	"avstream/internal/sample"
)

// Options configures a random-access dataset.
type Options struct {
	// Processor supplies manifest entries and transcript encoding.
	Processor *manifest.Processor
	// Waveform decodes and windows audio media.
	Waveform *featurize.Waveform
	// Video extracts frame clips; nil disables the video modality even for
	// entries that declare one.
	Video *featurize.Video
	// ReturnSampleID attaches the manifest index to every sample.
	ReturnSampleID bool
	// Logger receives dataset events.
	Logger *slog.Logger
}

// AudioVideoText serves manifest entries by index, featurizing media from
// files on disk.
type AudioVideoText struct {
	processor *manifest.Processor
	waveform  *featurize.Waveform
	video     *featurize.Video
	returnID  bool
}

// NewAudioVideoText builds a random-access dataset over a loaded manifest.
func NewAudioVideoText(opts Options) (*AudioVideoText, error) {
	if opts.Processor == nil {
		return nil, errors.New("dataset: nil manifest processor")
	}
	if opts.Waveform == nil {
		return nil, errors.New("dataset: nil waveform featurizer")
	}

	logger := logging.NewComponentLogger(opts.Logger, "dataset")
	logger.Debug("opening random-access dataset",
		slog.Int("entries", opts.Processor.Collection.Len()),
		slog.Bool("video", opts.Video != nil),
	)

	return &AudioVideoText{
		processor: opts.Processor,
		waveform:  opts.Waveform,
		video:     opts.Video,
		returnID:  opts.ReturnSampleID,
	}, nil
}

// Len is the number of entries after manifest filtering.
func (d *AudioVideoText) Len() int {
	return d.processor.Collection.Len()
}

// Get featurizes the entry at index into a sample.
func (d *AudioVideoText) Get(ctx context.Context, index int) (sample.Sample, error) {
	entry, err := d.processor.Collection.Entry(index)
	if err != nil {
		return sample.Sample{}, err
	}

	duration := entryDuration(entry)
	audio, err := d.waveform.Process(entry.AudioFile, entry.Offset, duration)
	if err != nil {
		return sample.Sample{}, err
	}

	var frames sample.Frames
	if d.video != nil && entry.VideoFile != "" {
		frames, err = d.video.Process(ctx, entry.VideoFile, entry.Offset, duration)
		if err != nil {
			return sample.Sample{}, err
		}
		audio, frames = align.Align(audio, frames)
	}

	tokens, err := d.processor.TokensForEntry(entry)
	if err != nil {
		return sample.Sample{}, err
	}

	return assemble(audio, frames, tokens, index, d.returnID), nil
}

func assemble(audio []float32, frames sample.Frames, tokens []int32, index int, withID bool) sample.Sample {
	s := sample.Sample{
		Audio:  audio,
		Video:  frames,
		Tokens: tokens,
	}
	if withID {
		s.ID = int32(index)
		s.HasID = true
	}
	return s
}

// entryDuration resolves the media window length, 0 meaning to end of file.
func entryDuration(entry manifest.Entry) float64 {
	if entry.Duration == nil {
		return 0
	}
	return *entry.Duration
}

// CollateRange featurizes a contiguous index range and collates it into a
// batch, a convenience for inspection tooling.
func (d *AudioVideoText) CollateRange(ctx context.Context, begin, count int) (sample.Batch, error) {
	if count <= 0 {
		return sample.Batch{}, fmt.Errorf("dataset: batch count %d must be positive", count)
	}
	samples := make([]sample.Sample, 0, count)
	for i := begin; i < begin+count; i++ {
		s, err := d.Get(ctx, i)
		if err != nil {
			return sample.Batch{}, err
		}
		samples = append(samples, s)
	}
	return sample.Collate(samples, d.processor.PadID())
}
