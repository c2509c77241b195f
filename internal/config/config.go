package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Manifest contains default manifest filtering settings.
type Manifest struct {
	// MinDuration in seconds; entries shorter are dropped. Zero disables.
	MinDuration float64 `toml:"min_duration"`
	// MaxDuration in seconds; entries longer are dropped. Zero disables.
	MaxDuration float64 `toml:"max_duration"`
	// MaxUtterances caps the entries kept across manifests. Zero keeps all.
	MaxUtterances int `toml:"max_utterances"`
}

// Audio contains waveform featurizer settings.
type Audio struct {
	// SampleRate is the pipeline rate in Hz.
	SampleRate int `toml:"sample_rate"`
	// IntValues keeps raw integer sample values instead of [-1,1] floats.
	IntValues bool `toml:"int_values"`
	// ChannelSelector is "", "average", or a decimal channel index.
	ChannelSelector string `toml:"channel_selector"`
}

// Video contains frame extraction settings.
type Video struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Loader contains streaming dataset settings.
type Loader struct {
	// ShuffleWindow is the lookahead shuffle buffer size. Zero disables
	// shuffling.
	ShuffleWindow int `toml:"shuffle_window"`
	// Seed feeds the shuffle RNG; ranks offset it by their rank.
	Seed int64 `toml:"seed"`
	// ShardStrategy is "scatter" or "replicate".
	ShardStrategy string `toml:"shard_strategy"`
	// PadID pads token sequences during collation.
	PadID int32 `toml:"pad_id"`
	// BOSID is prepended to token sequences when non-negative.
	BOSID int32 `toml:"bos_id"`
	// EOSID is appended to token sequences when non-negative.
	EOSID int32 `toml:"eos_id"`
	// ReturnSampleID attaches the manifest index to each sample.
	ReturnSampleID bool `toml:"return_sample_id"`
}

// Datastore contains remote object cache settings.
type Datastore struct {
	// MaxGiB bounds the cache size; prune removes oldest objects beyond it.
	MaxGiB int `toml:"max_gib"`
	// FetchTimeoutSeconds bounds a single remote fetch.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Manifest  Manifest  `toml:"manifest"`
	Audio     Audio     `toml:"audio"`
	Video     Video     `toml:"video"`
	Loader    Loader    `toml:"loader"`
	Datastore Datastore `toml:"datastore"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/avstream/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("avstream.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories dataset loading relies on.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
