// Package config loads, normalizes, and validates storefront configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// GITHUB_TOKEN and STOREFRONT_API_TOKEN. The Config type centralizes every
// knob the daemon and CLI need: storage locations, the GitHub release source,
// the share-link resolver, lookup caches, and view fallbacks.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
