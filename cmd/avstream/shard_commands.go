package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"avstream/internal/shards"
)

func newShardsCommand(ctx *commandContext) *cobra.Command {
	shardsCmd := &cobra.Command{
		Use:   "shards",
		Short: "Shard layout utilities",
	}

	shardsCmd.AddCommand(newShardsListCommand(ctx))

	return shardsCmd
}

func newShardsListCommand(ctx *commandContext) *cobra.Command {
	var strategyFlag string
	var rank, worldSize int

	cmd := &cobra.Command{
		Use:   "list <pattern>...",
		Short: "Expand shard patterns and preview per-rank assignment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("strategy") {
				strategyFlag = cfg.Loader.ShardStrategy
			}
			strategy, err := shards.ParseStrategy(strategyFlag)
			if err != nil {
				return err
			}

			expanded, err := shards.Expand(args)
			if err != nil {
				return err
			}
			assigned, dropped, err := shards.Partition(expanded, strategy, rank, worldSize)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(assigned))
			for i, path := range assigned {
				rows = append(rows, []string{strconv.Itoa(i), path})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Expanded %d shard(s); rank %d/%d receives %d under %s\n",
				len(expanded), rank, worldSize, len(assigned), strategy)
			if dropped > 0 {
				fmt.Fprintf(out, "Warning: %d trailing shard(s) are dropped by uneven scatter\n", dropped)
			}
			fmt.Fprintln(out, renderTable(out, []string{"#", "Shard"}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Shard distribution strategy (scatter or replicate)")
	cmd.Flags().IntVar(&rank, "rank", 0, "Consumer rank to preview")
	cmd.Flags().IntVar(&worldSize, "world-size", 1, "Total number of consumers")
	return cmd
}
