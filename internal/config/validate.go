package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	var errs []error

	if c.Manifest.MinDuration < 0 {
		errs = append(errs, fmt.Errorf("manifest.min_duration must not be negative, got %v", c.Manifest.MinDuration))
	}
	if c.Manifest.MaxDuration < 0 {
		errs = append(errs, fmt.Errorf("manifest.max_duration must not be negative, got %v", c.Manifest.MaxDuration))
	}
	if c.Manifest.MaxDuration > 0 && c.Manifest.MinDuration > c.Manifest.MaxDuration {
		errs = append(errs, fmt.Errorf("manifest.min_duration %v exceeds max_duration %v", c.Manifest.MinDuration, c.Manifest.MaxDuration))
	}
	if c.Manifest.MaxUtterances < 0 {
		errs = append(errs, fmt.Errorf("manifest.max_utterances must not be negative, got %d", c.Manifest.MaxUtterances))
	}

	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if selector := c.Audio.ChannelSelector; selector != "" && selector != "average" {
		if idx, err := strconv.Atoi(selector); err != nil || idx < 0 {
			errs = append(errs, fmt.Errorf("audio.channel_selector must be empty, %q, or a channel index, got %q", "average", selector))
		}
	}

	switch c.Loader.ShardStrategy {
	case "scatter", "replicate":
	default:
		errs = append(errs, fmt.Errorf("loader.shard_strategy must be scatter or replicate, got %q", c.Loader.ShardStrategy))
	}
	if c.Loader.ShuffleWindow < 0 {
		errs = append(errs, fmt.Errorf("loader.shuffle_window must not be negative, got %d", c.Loader.ShuffleWindow))
	}

	if c.Datastore.MaxGiB < 0 {
		errs = append(errs, fmt.Errorf("datastore.max_gib must not be negative, got %d", c.Datastore.MaxGiB))
	}
	if c.Datastore.FetchTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("datastore.fetch_timeout_seconds must be positive, got %d", c.Datastore.FetchTimeoutSeconds))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
