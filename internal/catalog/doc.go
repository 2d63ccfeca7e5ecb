// Package catalog persists storefront listings in SQLite and loads seed
// catalogs from YAML.
//
// The Store manages the database connection, schema initialization, and
// CRUD operations for Record values. Screenshots and curated older versions
// are stored as JSON columns so a record round-trips as one row.
//
// Enrichment code only reads through the Repository interface; writes come
// from explicit administrative actions. Schema changes bump schemaVersion in
// schema.go; operators delete the database to adopt the new schema.
package catalog
