// Package config loads, normalizes, and validates the module's TOML
// configuration.
//
// The configuration covers the dataset defaults (manifest filtering bounds,
// audio/video featurizer settings, loader behavior), the datastore cache,
// and logging. Load falls back to built-in defaults when no config file
// exists, expands "~" in every path field, and rejects invalid combinations
// up front so dataset construction can assume a sane config.
package config
