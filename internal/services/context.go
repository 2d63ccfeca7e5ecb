package services

import "context"

type contextKey string

const (
	listingIDKey contextKey = "listing_id"
	requestIDKey contextKey = "request_id"
)

// WithListingID annotates context with the catalog record identifier.
func WithListingID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, listingIDKey, id)
}

// ListingIDFromContext extracts the catalog record identifier if present.
func ListingIDFromContext(ctx context.Context) (int64, bool) {
	if v, ok := ctx.Value(listingIDKey).(int64); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
