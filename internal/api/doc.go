// Package api is the service layer shared by the HTTP daemon and the CLI.
//
// ListingService serves the catalog grid and the enriched detail view: it
// loads the stored record, runs release sync and optional view-time asset
// resolution concurrently, and hands the results to the view model
// assembler. AdminService performs the explicit write operations, including
// resolving a share link into an image field, where a failed resolution is
// reported back as *ResolveError with the resolution service's own message
// and the stored record is left as it was.
//
// Wire types use camelCase JSON tags. Timestamps are RFC3339 with
// milliseconds. Nullable live fields are serialized as JSON null rather
// than omitted so clients can tell "no live data" from "not requested".
package api
