// Package release reads live release data for catalog listings from a
// source-hosting API.
//
// ParseRef extracts an owner/repo reference from the free-text repository
// URL stored on a listing. Client exposes three independent lookups
// (repository metadata, latest release, readme) that fail closed: any
// network error, bad reference, 404, or timeout yields nil rather than an
// error, and is only logged. GitHubClient implements Client with
// go-github; CachedClient adds a short-lived cache of successful lookups.
package release
