package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Loader.ShardStrategy != "scatter" {
		t.Fatalf("expected default shard strategy, got %q", cfg.Loader.ShardStrategy)
	}
	if cfg.Loader.BOSID != -1 || cfg.Loader.EOSID != -1 {
		t.Fatalf("expected bos/eos disabled by default, got %d/%d", cfg.Loader.BOSID, cfg.Loader.EOSID)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	payload := `
[audio]
sample_rate = 8000

[loader]
shard_strategy = "Replicate"
shuffle_window = 128

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Audio.SampleRate != 8000 {
		t.Fatalf("expected sample rate 8000, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Loader.ShardStrategy != "replicate" {
		t.Fatalf("expected lowercased strategy, got %q", cfg.Loader.ShardStrategy)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
	if !filepath.IsAbs(cfg.Paths.CacheDir) {
		t.Fatalf("expected expanded cache dir, got %q", cfg.Paths.CacheDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []string{
		"[audio]\nsample_rate = 0\n",
		"[manifest]\nmin_duration = 5.0\nmax_duration = 1.0\n",
		"[loader]\nshard_strategy = \"roundrobin\"\n",
		"[logging]\nformat = \"xml\"\n",
		"[audio]\nchannel_selector = \"left\"\n",
	}
	for _, payload := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Fatalf("expected validation error for %q", payload)
		}
	}
}

func TestSampleConfigIsValidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatalf("write sample config: %v", err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, sub := range []string{"cache", "logs"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("expected %s to exist: %v", sub, err)
		}
	}
}

func TestExpandPathHome(t *testing.T) {
	expanded, err := ExpandPath("~/data")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if strings.HasPrefix(expanded, "~") || !filepath.IsAbs(expanded) {
		t.Fatalf("expected absolute expansion, got %q", expanded)
	}
}
