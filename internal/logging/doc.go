// Package logging constructs the slog loggers used across the module.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log aggregation. Standardized field keys keep dataset
// iteration logs greppable; NewComponentLogger tags a logger with the
// emitting component.
package logging
