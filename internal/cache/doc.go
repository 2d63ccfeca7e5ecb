// Package cache provides a small in-memory TTL cache used in front of the
// GitHub release client and the share-link resolver.
//
// Entries expire after a fixed lifetime and the cache is bounded; when full,
// expired entries are swept and then the entry closest to expiry is evicted.
// GetOrLoad coalesces concurrent misses for the same key through singleflight
// while misses for different keys load independently. Loaders report whether
// their result is cacheable so failures are never remembered.
package cache
