// Package services defines shared utilities consumed by the storefront's
// enrichment components and HTTP handlers.
//
// Key responsibilities:
//   - Context helpers that stamp listing IDs and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper, and HTTPStatus, which
//     translates a marked failure into the response code the API returns.
//
// Use these helpers when wiring new handlers so error classification and
// observability stay uniform across the daemon and CLI.
package services
