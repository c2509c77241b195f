package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized key for the emitting component.
	FieldComponent = "component"
	// FieldShard is the standardized key for shard archive paths.
	FieldShard = "shard"
	// FieldFileID is the standardized key for manifest file ids.
	FieldFileID = "file_id"
	// FieldManifest is the standardized key for manifest file paths.
	FieldManifest = "manifest"
	// FieldRank is the standardized key for the worker rank.
	FieldRank = "rank"
	// FieldWorldSize is the standardized key for the worker count.
	FieldWorldSize = "world_size"
	// FieldSampleIndex is the standardized key for manifest entry positions.
	FieldSampleIndex = "sample_index"
)

// Error wraps an error for structured logging.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// NewComponentLogger tags a logger with a standardized component attribute.
// A nil logger falls back to the no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (noopHandler) WithAttrs([]slog.Attr) slog.Handler { return noopHandler{} }

func (noopHandler) WithGroup(string) slog.Handler { return noopHandler{} }
