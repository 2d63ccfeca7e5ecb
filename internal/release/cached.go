package release

import (
	"context"
	"time"

	"storefront/internal/cache"
)

// CachedClient remembers successful lookups per repository for a short time.
// Failed (nil) lookups are never cached.
type CachedClient struct {
	inner     Client
	repos     *cache.TTL[*RepoMeta]
	snapshots *cache.TTL[*Snapshot]
	readmes   *cache.TTL[*string]
}

var _ Client = (*CachedClient)(nil)

// NewCachedClient wraps inner with TTL caches keyed by owner/repo.
func NewCachedClient(inner Client, ttl time.Duration, maxEntries int) *CachedClient {
	return &CachedClient{
		inner:     inner,
		repos:     cache.New[*RepoMeta](ttl, maxEntries),
		snapshots: cache.New[*Snapshot](ttl, maxEntries),
		readmes:   cache.New[*string](ttl, maxEntries),
	}
}

// FetchRepository implements Client.
func (c *CachedClient) FetchRepository(ctx context.Context, ref Ref) *RepoMeta {
	return c.repos.GetOrLoad(ctx, ref.Key(), func(ctx context.Context) (*RepoMeta, bool) {
		meta := c.inner.FetchRepository(ctx, ref)
		return meta, meta != nil
	})
}

// FetchLatestRelease implements Client. Callers receive a copy so they may
// fill derived fields without touching the cached value.
func (c *CachedClient) FetchLatestRelease(ctx context.Context, ref Ref) *Snapshot {
	snap := c.snapshots.GetOrLoad(ctx, ref.Key(), func(ctx context.Context) (*Snapshot, bool) {
		snap := c.inner.FetchLatestRelease(ctx, ref)
		return snap, snap != nil
	})
	if snap == nil {
		return nil
	}
	clone := *snap
	return &clone
}

// FetchReadme implements Client.
func (c *CachedClient) FetchReadme(ctx context.Context, ref Ref) *string {
	return c.readmes.GetOrLoad(ctx, ref.Key(), func(ctx context.Context) (*string, bool) {
		readme := c.inner.FetchReadme(ctx, ref)
		return readme, readme != nil
	})
}
