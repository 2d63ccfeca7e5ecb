package assets

import (
	"context"
	"time"
)

// Status classifies the outcome of a resolution attempt.
type Status string

const (
	// StatusSkipped marks input that is not an absolute http(s) URL.
	StatusSkipped Status = "skipped"
	// StatusDirect marks a URL outside the whitelist, assumed to be an image already.
	StatusDirect Status = "direct"
	// StatusResolved marks a successful resolution.
	StatusResolved Status = "resolved"
	// StatusFailed marks a whitelisted URL the service could not resolve.
	StatusFailed Status = "failed"
)

// Resolved is the ephemeral result of resolving one asset link.
type Resolved struct {
	SourceURL   string
	ResolvedURL *string
	ResolvedAt  time.Time
	Status      Status
	Message     string
	// Disabled marks a whitelisted link returned unchanged because no
	// resolution service is configured.
	Disabled bool
}

// URL returns the resolved URL when present, otherwise the source URL.
func (r Resolved) URL() string {
	if r.ResolvedURL != nil {
		return *r.ResolvedURL
	}
	return r.SourceURL
}

// Resolver converts share-page links into direct image URLs.
type Resolver interface {
	Resolve(ctx context.Context, shareURL string) Resolved
}
