package assets

import (
	"context"
	"strings"
	"time"

	"storefront/internal/cache"
)

// CachedResolver remembers successful resolutions for a short time.
// Skipped, direct, and failed results always reach the inner resolver.
type CachedResolver struct {
	inner Resolver
	cache *cache.TTL[Resolved]
}

var _ Resolver = (*CachedResolver)(nil)

// NewCachedResolver wraps inner with a TTL cache keyed by source URL.
func NewCachedResolver(inner Resolver, ttl time.Duration, maxEntries int) *CachedResolver {
	return &CachedResolver{inner: inner, cache: cache.New[Resolved](ttl, maxEntries)}
}

// Resolve implements Resolver.
func (c *CachedResolver) Resolve(ctx context.Context, shareURL string) Resolved {
	key := strings.TrimSpace(shareURL)
	res := c.cache.GetOrLoad(ctx, key, func(ctx context.Context) (Resolved, bool) {
		res := c.inner.Resolve(ctx, shareURL)
		return res, res.Status == StatusResolved
	})
	if res.Status == "" {
		// Caller gave up before the shared lookup finished.
		return Resolved{SourceURL: shareURL, ResolvedAt: time.Now().UTC(), Status: StatusFailed, Message: "resolution abandoned"}
	}
	return res
}
