package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for scoring run identifiers.
	FieldRunID = "run_id"
	// FieldManifest is the standardized structured logging key for the manifest being processed.
	FieldManifest = "manifest"
	// FieldEventType names the kind of event a warning or error describes.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact states what a warning means for the results.
	FieldImpact = "impact"
)

type contextKey int

const (
	runIDKey contextKey = iota
	manifestKey
)

// WithRunID returns a context carrying the scoring run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithManifest returns a context carrying the manifest path being processed.
func WithManifest(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, manifestKey, path)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if path, ok := ctx.Value(manifestKey).(string); ok && path != "" {
		fields = append(fields, slog.String(FieldManifest, path))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(args(fields)...)
}
