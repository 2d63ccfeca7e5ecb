// Package timeline builds the version history shown on a listing page.
//
// Merge places the current version first, taken from the live release when
// one is available and from the record's own version otherwise, then appends
// the manually curated older versions in the order they were entered. Rows
// are never re-sorted: curated dates are free-text labels. Duplicate version
// strings are kept unless the PreferLive policy is selected.
package timeline
