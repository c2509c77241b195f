package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"avstream/internal/dataset"
	"avstream/internal/logging"
	"avstream/internal/manifest"
	"avstream/internal/shards"
	"avstream/internal/textnorm"
)

// defaultLabels is the standard lowercase English character vocabulary.
var defaultLabels = strings.Split(" abcdefghijklmnopqrstuvwxyz'", "")

func newSampleCommand(ctx *commandContext) *cobra.Command {
	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample inspection utilities",
	}

	sampleCmd.AddCommand(newSampleShowCommand(ctx))
	sampleCmd.AddCommand(newSampleStreamCommand(ctx))

	return sampleCmd
}

func newCharTokenizer(labels string) (*textnorm.CharTokenizer, error) {
	vocabulary := defaultLabels
	if strings.TrimSpace(labels) != "" {
		vocabulary = strings.Split(labels, "")
	}
	return textnorm.NewCharTokenizer(vocabulary, textnorm.CharOptions{
		UnkID:     -1,
		BlankID:   int32(len(vocabulary)),
		Normalize: true,
	})
}

// loadProcessor resolves the manifest reference, loads it with the
// configured duration bounds, and pairs it with a character tokenizer.
func loadProcessor(cmd *cobra.Command, ctx *commandContext, ref, labels string, indexByFileID bool) (*manifest.Processor, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	tokenizer, err := newCharTokenizer(labels)
	if err != nil {
		return nil, err
	}
	paths, err := ctx.resolveRefs(cmd.Context(), manifest.SplitPaths(ref))
	if err != nil {
		return nil, err
	}
	collection, err := manifest.Load(paths, manifest.Options{
		MinDuration:   cfg.Manifest.MinDuration,
		MaxDuration:   cfg.Manifest.MaxDuration,
		MaxUtterances: cfg.Manifest.MaxUtterances,
		IndexByFileID: indexByFileID,
	})
	if err != nil {
		return nil, err
	}
	return manifest.NewProcessor(collection, tokenizer, manifest.ProcessorOptions{
		BOSID: cfg.Loader.BOSID,
		EOSID: cfg.Loader.EOSID,
		PadID: cfg.Loader.PadID,
	})
}

func newSampleShowCommand(ctx *commandContext) *cobra.Command {
	var index int
	var labels string

	cmd := &cobra.Command{
		Use:   "show <manifest>",
		Short: "Featurize one manifest entry and describe the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			processor, err := loadProcessor(cmd, ctx, args[0], labels, false)
			if err != nil {
				return err
			}

			waveform, err := ctx.newWaveform()
			if err != nil {
				return err
			}
			video, err := ctx.newVideo()
			if err != nil {
				return err
			}

			d, err := dataset.NewAudioVideoText(dataset.Options{
				Processor:      processor,
				Waveform:       waveform,
				Video:          video,
				ReturnSampleID: true,
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			s, err := d.Get(cmd.Context(), index)
			if err != nil {
				return err
			}
			logger.Debug("featurized sample",
				slog.String(logging.FieldManifest, args[0]),
				slog.Int(logging.FieldSampleIndex, index),
			)

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Sample id", strconv.Itoa(int(s.ID))},
				{"Audio samples", strconv.Itoa(s.AudioLen())},
				{"Audio seconds", fmt.Sprintf("%.3f", float64(s.AudioLen())/float64(waveform.SampleRate()))},
				{"Video frames", strconv.Itoa(s.VideoLen())},
				{"Has video", yesNo(!s.Video.Empty())},
				{"Tokens", strconv.Itoa(s.TokenLen())},
			}
			if !s.Video.Empty() {
				rows = append(rows, []string{
					"Frame geometry",
					fmt.Sprintf("%dx%dx%d", s.Video.Height, s.Video.Width, s.Video.Channels),
				})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "Manifest entry index to featurize")
	cmd.Flags().StringVar(&labels, "labels", "", "Character vocabulary override, one label per character")
	return cmd
}

func newSampleStreamCommand(ctx *commandContext) *cobra.Command {
	var labels string
	var rank, worldSize, limit int

	cmd := &cobra.Command{
		Use:   "stream <manifest> <shard-pattern>...",
		Short: "Stream samples from tar shards and summarize the result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			processor, err := loadProcessor(cmd, ctx, args[0], labels, true)
			if err != nil {
				return err
			}

			waveform, err := ctx.newWaveform()
			if err != nil {
				return err
			}
			video, err := ctx.newVideo()
			if err != nil {
				return err
			}

			// Expand before resolving so brace patterns over remote URLs
			// fetch each concrete shard.
			expanded, err := shards.Expand(args[1:])
			if err != nil {
				return err
			}
			resolved, err := ctx.resolveRefs(cmd.Context(), expanded)
			if err != nil {
				return err
			}

			d, err := dataset.NewTarred(dataset.TarredOptions{
				Processor:      processor,
				Waveform:       waveform,
				Video:          video,
				ShardPatterns:  resolved,
				Strategy:       shards.Strategy(cfg.Loader.ShardStrategy),
				Rank:           rank,
				WorldSize:      worldSize,
				ShuffleWindow:  cfg.Loader.ShuffleWindow,
				Seed:           cfg.Loader.Seed,
				ReturnSampleID: cfg.Loader.ReturnSampleID,
				Logger:         logger,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := d.Close(); err != nil {
					logger.Warn("close shard stream", logging.Error(err))
				}
			}()

			var yielded, audioSamples, videoFrames int
			for limit <= 0 || yielded < limit {
				s, err := d.Next(cmd.Context())
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				yielded++
				audioSamples += s.AudioLen()
				videoFrames += s.VideoLen()
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Samples", strconv.Itoa(yielded)},
				{"Skipped items", strconv.Itoa(d.Skipped())},
				{"Audio seconds", fmt.Sprintf("%.3f", float64(audioSamples)/float64(waveform.SampleRate()))},
				{"Video frames", strconv.Itoa(videoFrames)},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&labels, "labels", "", "Character vocabulary override, one label per character")
	cmd.Flags().IntVar(&rank, "rank", 0, "Consumer rank")
	cmd.Flags().IntVar(&worldSize, "world-size", 1, "Total number of consumers")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many samples (0 streams everything)")
	return cmd
}
