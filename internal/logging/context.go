package logging

import (
	"context"
	"log/slog"

	"storefront/internal/services"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldListingID is the structured logging key for catalog record identifiers.
	FieldListingID = "listing_id"
	// FieldRequestID is the structured logging key for HTTP request correlation.
	FieldRequestID = "request_id"
	// FieldEventType classifies a log line for filtering (e.g. "release_lookup_failed").
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step an operator should take.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRepository is the owner/name pair of a release source.
	FieldRepository = "repository"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.ListingIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldListingID, id))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, rid))
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
