package timeline

import (
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/release"
)

// SourceKind tells where a timeline row came from.
type SourceKind string

const (
	SourceLive   SourceKind = "live"
	SourceManual SourceKind = "manual"
)

// LiveDateLabel is the date shown for the live release row.
const LiveDateLabel = "Now"

// DuplicatePolicy controls rows whose version equals the live tag.
type DuplicatePolicy string

const (
	// KeepDuplicates preserves every curated row.
	KeepDuplicates DuplicatePolicy = "keep"
	// PreferLive drops curated rows that repeat the live tag.
	PreferLive DuplicatePolicy = "prefer_live"
)

// Entry is one row of the version timeline.
type Entry struct {
	Version      string
	Date         string
	SizeLabel    string
	SourceKind   SourceKind
	DownloadURL  *string
	MinOSVersion string
	PackageType  string
}

type options struct {
	fallbackSize     string
	fallbackDate     string
	fallbackDownload *string
	policy           DuplicatePolicy
}

// Option adjusts Merge.
type Option func(*options)

// WithFallbackSize sets the size label of the manual current-version row.
func WithFallbackSize(label string) Option {
	return func(o *options) { o.fallbackSize = strings.TrimSpace(label) }
}

// WithFallbackDate sets the date label of the manual current-version row.
func WithFallbackDate(label string) Option {
	return func(o *options) { o.fallbackDate = strings.TrimSpace(label) }
}

// WithFallbackDownload sets the download link of the manual current-version row.
func WithFallbackDownload(url string) Option {
	return func(o *options) {
		if url = strings.TrimSpace(url); url != "" {
			o.fallbackDownload = &url
		}
	}
}

// WithDuplicatePolicy selects how curated rows matching the live tag are handled.
// Unknown policies behave like KeepDuplicates.
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(o *options) { o.policy = policy }
}

// Merge returns the current-version row followed by the curated rows.
func Merge(manual []catalog.OlderVersion, live *release.Snapshot, currentManualVersion string, opts ...Option) []Entry {
	o := options{policy: KeepDuplicates}
	for _, opt := range opts {
		opt(&o)
	}

	entries := make([]Entry, 0, len(manual)+1)
	liveTag := ""
	if live != nil && strings.TrimSpace(live.TagName) != "" {
		liveTag = strings.TrimSpace(live.TagName)
		head := Entry{
			Version:    liveTag,
			Date:       LiveDateLabel,
			SourceKind: SourceLive,
		}
		if live.PrimaryAssetSizeBytes != nil {
			head.SizeLabel = SizeLabel(*live.PrimaryAssetSizeBytes)
		}
		if live.PrimaryAssetDownloadURL != nil && *live.PrimaryAssetDownloadURL != "" {
			download := *live.PrimaryAssetDownloadURL
			head.DownloadURL = &download
		}
		entries = append(entries, head)
	} else {
		entries = append(entries, Entry{
			Version:     strings.TrimSpace(currentManualVersion),
			Date:        o.fallbackDate,
			SizeLabel:   o.fallbackSize,
			SourceKind:  SourceManual,
			DownloadURL: o.fallbackDownload,
		})
	}

	for _, row := range manual {
		version := strings.TrimSpace(row.Version)
		if o.policy == PreferLive && liveTag != "" && version == liveTag {
			continue
		}
		entry := Entry{
			Version:      version,
			Date:         strings.TrimSpace(row.Date),
			SourceKind:   SourceManual,
			MinOSVersion: strings.TrimSpace(row.MinOSVersion),
			PackageType:  strings.TrimSpace(row.PackageType),
		}
		if url := strings.TrimSpace(row.URL); url != "" {
			entry.DownloadURL = &url
		}
		entries = append(entries, entry)
	}
	return entries
}

const bytesPerMB = 1024 * 1024

// SizeLabel renders a byte count in megabytes with one decimal place.
func SizeLabel(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/bytesPerMB)
}
