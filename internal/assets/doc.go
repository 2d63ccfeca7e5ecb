// Package assets turns share-page links (Pinterest pins, imgur pages, and
// similar) into direct, embeddable image URLs.
//
// Only absolute http(s) URLs whose host is on the configured whitelist are
// sent to the resolution service; anything else is returned untouched. The
// resolver never returns a Go error: failures are reported through
// Resolved.Status and Resolved.Message so callers can show the service's
// message to an administrator and fall back to stored data elsewhere.
//
// HTTPResolver calls GET {base}/resolve-image?url=...; CachedResolver wraps
// any Resolver with a short-lived cache of successful resolutions.
package assets
