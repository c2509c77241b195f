package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"avstream/internal/config"
	"avstream/internal/datastore"
	"avstream/internal/featurize"
	"avstream/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the structured logger from the logging section of the
// configuration, writing to a file under the log directory so command output
// stays clean.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "avstream.log")},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// resolveRefs maps manifest and shard references to local paths, fetching
// remote URLs through the datastore cache. Purely local reference lists skip
// the cache entirely.
func (c *commandContext) resolveRefs(ctx context.Context, refs []string) ([]string, error) {
	remote := false
	for _, ref := range refs {
		if datastore.IsRemote(ref) {
			remote = true
			break
		}
	}
	if !remote {
		return refs, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	cache, err := openCache(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	resolved := make([]string, len(refs))
	for i, ref := range refs {
		path, err := cache.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		resolved[i] = path
	}
	return resolved, nil
}

func (c *commandContext) newWaveform() (*featurize.Waveform, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return featurize.NewWaveform(featurize.WaveformOptions{
		SampleRate: cfg.Audio.SampleRate,
		IntValues:  cfg.Audio.IntValues,
		Channel:    cfg.Audio.ChannelSelector,
	})
}

func (c *commandContext) newVideo() (*featurize.Video, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return featurize.NewVideo(featurize.VideoOptions{
		FFmpegBinary:  cfg.Video.FFmpegBinary,
		FFprobeBinary: cfg.Video.FFprobeBinary,
	}), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
