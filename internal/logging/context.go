package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldComic is the standardized key for the comic book being processed (base name).
	FieldComic = "comic"
	// FieldPage is the standardized key for 1-based page numbers (1 is the cover).
	FieldPage = "page"
	// FieldLang is the standardized key for text-layer language codes.
	FieldLang = "lang"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the user.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	comicKey contextKey = iota
	pageKey
)

// WithComic returns a context carrying the comic book name for log enrichment.
func WithComic(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, comicKey, name)
}

// WithPage returns a context carrying the current page number for log enrichment.
func WithPage(ctx context.Context, page int) context.Context {
	return context.WithValue(ctx, pageKey, page)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if name, ok := ctx.Value(comicKey).(string); ok && name != "" {
		fields = append(fields, slog.String(FieldComic, name))
	}
	if page, ok := ctx.Value(pageKey).(int); ok && page > 0 {
		fields = append(fields, slog.Int(FieldPage, page))
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
	return logger.With(Args(fields...)...)
}
