// Package storage persists uploaded listing images and returns the public
// URL they are served from.
//
// LocalUploader writes into the configured upload directory using
// date-bucketed, randomly named files and serves them under the configured
// public base URL. Only recognized image formats are accepted.
package storage
