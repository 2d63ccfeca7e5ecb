// Package viewmodel assembles the listing page model from a stored record
// and the outputs of release sync and asset resolution.
//
// Assemble performs no I/O and always returns a complete Listing. Live
// release data wins over curated fields when present, and every image
// falls back from the resolved URL to the stored value to a placeholder.
package viewmodel
