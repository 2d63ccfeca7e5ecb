// Package preflight provides readiness checks for the filesystem paths and
// upstream services the storefront depends on.
//
// The daemon logs RunAll results at startup and the CLI "storefront doctor"
// command renders them as a table. Checks for disabled features report a
// pass with a "disabled" detail so operators can tell them apart from
// failures.
package preflight
