// Command storefront is the operator CLI for the storefront catalog.
//
// It works on the SQLite catalog directly, so the daemon does not need to be
// running. Listing commands show the same enriched view the HTTP API serves,
// sync reports the raw release lookup for one listing, resolve runs share-link
// image resolution, and doctor renders the preflight checks.
//
// Output is a table on a terminal and JSON otherwise; --format overrides.
package main
