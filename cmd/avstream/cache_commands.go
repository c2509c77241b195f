package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"avstream/internal/config"
	"avstream/internal/datastore"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Remote object cache maintenance",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func openCache(cfg *config.Config, logger *slog.Logger) (*datastore.Cache, error) {
	return datastore.Open(datastore.Options{
		Dir:          cfg.Paths.CacheDir,
		FetchTimeout: time.Duration(cfg.Datastore.FetchTimeoutSeconds) * time.Second,
		Logger:       logger,
	})
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Report cache occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cache, err := openCache(cfg, logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			stats, err := cache.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Directory", cfg.Paths.CacheDir},
				{"Objects", fmt.Sprintf("%d", stats.Objects)},
				{"Total size", formatBytes(stats.TotalBytes)},
				{"Budget", formatBytes(int64(cfg.Datastore.MaxGiB) << 30)},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove oldest cached objects beyond the size budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cache, err := openCache(cfg, logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			maxBytes := int64(cfg.Datastore.MaxGiB) << 30
			removed, freed, err := cache.Prune(cmd.Context(), maxBytes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if removed == 0 {
				fmt.Fprintln(out, "Cache within budget; nothing pruned")
				return nil
			}
			fmt.Fprintf(out, "Pruned %d object(s), freeing %s\n", removed, formatBytes(freed))
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
