package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"avstream/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Manifest inspection utilities",
	}

	manifestCmd.AddCommand(newManifestStatsCommand(ctx))
	manifestCmd.AddCommand(newManifestValidateCommand(ctx))

	return manifestCmd
}

func newManifestStatsCommand(ctx *commandContext) *cobra.Command {
	var minDuration, maxDuration float64
	var maxUtterances int

	cmd := &cobra.Command{
		Use:   "stats <manifest>...",
		Short: "Summarize manifest entries after filtering",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-duration") {
				minDuration = cfg.Manifest.MinDuration
			}
			if !cmd.Flags().Changed("max-duration") {
				maxDuration = cfg.Manifest.MaxDuration
			}
			if !cmd.Flags().Changed("max-utterances") {
				maxUtterances = cfg.Manifest.MaxUtterances
			}

			paths, err := ctx.resolveRefs(cmd.Context(), args)
			if err != nil {
				return err
			}
			collection, err := manifest.Load(paths, manifest.Options{
				MinDuration:   minDuration,
				MaxDuration:   maxDuration,
				MaxUtterances: maxUtterances,
			})
			if err != nil {
				return err
			}

			var withVideo int
			for i := 0; i < collection.Len(); i++ {
				entry, err := collection.Entry(i)
				if err != nil {
					return err
				}
				if entry.VideoFile != "" {
					withVideo++
				}
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Entries", strconv.Itoa(collection.Len())},
				{"With video", strconv.Itoa(withVideo)},
				{"Total duration (s)", fmt.Sprintf("%.2f", collection.TotalDuration)},
				{"Filtered entries", strconv.Itoa(collection.FilteredCount)},
				{"Filtered duration (s)", fmt.Sprintf("%.2f", collection.FilteredDuration)},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&minDuration, "min-duration", 0, "Drop entries shorter than this many seconds")
	cmd.Flags().Float64Var(&maxDuration, "max-duration", 0, "Drop entries longer than this many seconds")
	cmd.Flags().IntVar(&maxUtterances, "max-utterances", 0, "Cap the number of entries kept")
	return cmd
}

func newManifestValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>...",
		Short: "Check that every manifest record parses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ctx.resolveRefs(cmd.Context(), args)
			if err != nil {
				return err
			}
			collection, err := manifest.Load(paths, manifest.Options{IndexByFileID: true})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %d entries from %d manifest file(s)\n", collection.Len(), len(args))
			fmt.Fprintln(out, "Manifest valid")
			return nil
		},
	}
}
