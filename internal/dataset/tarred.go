package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"avstream/internal/align"
	"avstream/internal/featurize"
	"avstream/internal/logging"
	"avstream/internal/manifest"
	"avstream/internal/sample"
	"avstream/internal/shards"
	"avstream/internal/tarstream"
)

// TarredOptions configures a streaming dataset over tar shards.
type TarredOptions struct {
	// Processor supplies the manifest mapping and transcript encoding. The
	// underlying collection must have been loaded with IndexByFileID.
	Processor *manifest.Processor
	// Waveform decodes audio members.
	Waveform *featurize.Waveform
	// Video extracts frames from video members; nil drops the modality.
	Video *featurize.Video
	// ShardPatterns are shard paths, possibly with brace expressions.
	ShardPatterns []string
	// Strategy distributes expanded shards across ranks.
	Strategy shards.Strategy
	// Rank and WorldSize identify this consumer in a distributed job.
	Rank      int
	WorldSize int
	// ShuffleWindow enables buffered shuffling when 2 or larger.
	ShuffleWindow int
	// Seed makes shuffling reproducible. The effective seed is offset by
	// Rank so ranks draw distinct orderings.
	Seed int64
	// ReturnSampleID attaches the manifest index to every sample.
	ReturnSampleID bool
	// Logger receives shard assignment and skip events.
	Logger *slog.Logger
}

// Tarred streams samples from sharded tar archives, pairing each archive
// item with its manifest entries by file id.
type Tarred struct {
	processor *manifest.Processor
	waveform  *featurize.Waveform
	video     *featurize.Video
	source    tarstream.Source
	reader    *tarstream.Reader
	returnID  bool
	logger    *slog.Logger

	current   tarstream.Item
	offsets   []int
	offsetIdx int
	skipped   int
}

// NewTarred expands and partitions the shard list for this rank and opens
// the stream.
func NewTarred(opts TarredOptions) (*Tarred, error) {
	if opts.Processor == nil {
		return nil, errors.New("dataset: nil manifest processor")
	}
	if opts.Waveform == nil {
		return nil, errors.New("dataset: nil waveform featurizer")
	}
	if len(opts.ShardPatterns) == 0 {
		return nil, errors.New("dataset: no shard patterns")
	}

	logger := logging.NewComponentLogger(opts.Logger, "dataset")

	strategy, err := shards.ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	expanded, err := shards.Expand(opts.ShardPatterns)
	if err != nil {
		return nil, err
	}
	assigned, dropped, err := shards.Partition(expanded, strategy, opts.Rank, opts.WorldSize)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		logger.Warn("shard count not divisible by world size, dropping remainder",
			slog.Int("shards", len(expanded)),
			slog.Int("dropped", dropped),
			slog.Int(logging.FieldWorldSize, opts.WorldSize),
		)
	}
	logger.Info("opening tarred stream",
		slog.Int("shards", len(assigned)),
		slog.Int(logging.FieldRank, opts.Rank),
		slog.Int(logging.FieldWorldSize, opts.WorldSize),
	)

	reader := tarstream.NewReader(assigned)
	var source tarstream.Source = reader
	if opts.ShuffleWindow >= 2 {
		source = tarstream.NewShuffle(reader, opts.ShuffleWindow, opts.Seed+int64(opts.Rank))
	}

	return &Tarred{
		processor: opts.Processor,
		waveform:  opts.Waveform,
		video:     opts.Video,
		source:    source,
		reader:    reader,
		returnID:  opts.ReturnSampleID,
		logger:    logger,
	}, nil
}

// Len is the filtered manifest length, an upper bound on the number of
// samples the stream yields.
func (d *Tarred) Len() int {
	return d.processor.Collection.Len()
}

// Skipped counts archive items whose file id had no manifest entry.
func (d *Tarred) Skipped() int {
	return d.skipped
}

// Next returns the next sample, advancing through every manifest offset of
// the current archive item before pulling the next one. It returns io.EOF
// once all assigned shards are drained.
func (d *Tarred) Next(ctx context.Context) (sample.Sample, error) {
	for {
		if err := ctx.Err(); err != nil {
			return sample.Sample{}, err
		}

		if d.offsetIdx < len(d.offsets) {
			index := d.offsets[d.offsetIdx]
			d.offsetIdx++
			return d.build(ctx, d.current, index)
		}

		item, err := d.source.Next()
		if errors.Is(err, io.EOF) {
			return sample.Sample{}, io.EOF
		}
		if err != nil {
			return sample.Sample{}, err
		}

		offsets, ok := d.processor.Collection.Offsets(item.Key)
		if !ok || len(offsets) == 0 {
			d.skipped++
			d.logger.Debug("skipping archive item absent from manifest",
				slog.String(logging.FieldFileID, item.Key),
				slog.String(logging.FieldShard, item.ShardPath),
			)
			continue
		}
		d.current = item
		d.offsets = offsets
		d.offsetIdx = 0
	}
}

func (d *Tarred) build(ctx context.Context, item tarstream.Item, index int) (sample.Sample, error) {
	entry, err := d.processor.Collection.Entry(index)
	if err != nil {
		return sample.Sample{}, err
	}

	duration := entryDuration(entry)
	audio, err := d.waveform.ProcessBytes(item.Audio, entry.Offset, duration)
	if err != nil {
		return sample.Sample{}, fmt.Errorf("dataset: item %q in %q: %w", item.Key, item.ShardPath, err)
	}

	var frames sample.Frames
	if d.video != nil && len(item.Video) > 0 {
		frames, err = d.video.ProcessBytes(ctx, item.Video, entry.Offset, duration)
		if err != nil {
			return sample.Sample{}, fmt.Errorf("dataset: item %q in %q: %w", item.Key, item.ShardPath, err)
		}
		audio, frames = align.Align(audio, frames)
	}

	tokens, err := d.processor.TokensForEntry(entry)
	if err != nil {
		return sample.Sample{}, err
	}

	return assemble(audio, frames, tokens, index, d.returnID), nil
}

// Close releases the underlying shard reader.
func (d *Tarred) Close() error {
	return d.reader.Close()
}
