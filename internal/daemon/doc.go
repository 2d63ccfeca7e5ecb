// Package daemon runs the long-lived storefront HTTP process.
//
// It holds a flock-based lock so only one instance serves a data directory,
// exposes the catalog and admin routes backed by the api service layer, and
// serves the share-link resolution endpoint that the asset resolver calls.
// Admin routes require the configured bearer token. Every request is tagged
// with a request ID that flows into log lines.
package daemon
