package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"storefront/internal/services"
)

// MaxScreenshots caps the number of screenshot links a listing carries.
const MaxScreenshots = 4

// OlderVersion is a manually curated row of a listing's version history.
// Date is a free-text label, not a parseable timestamp.
type OlderVersion struct {
	Version      string `json:"version" yaml:"version"`
	Date         string `json:"date,omitempty" yaml:"date"`
	URL          string `json:"url,omitempty" yaml:"url"`
	MinOSVersion string `json:"min_os_version,omitempty" yaml:"min_os_version"`
	PackageType  string `json:"package_type,omitempty" yaml:"package_type"`
}

// Record is a stored software listing with manually curated metadata.
// IconURL and Screenshots are either direct image URLs or unresolved
// share-page links.
type Record struct {
	ID                  int64
	Name                string
	Description         string
	Category            string
	Developer           string
	Version             string
	Rating              float64
	AgeRating           string
	PackageSize         string
	DownloadURL         string
	SourceRepositoryURL *string
	IconURL             string
	Screenshots         []string
	OlderVersions       []OlderVersion
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Clone returns a deep copy so callers can edit without aliasing slices.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	if r.SourceRepositoryURL != nil {
		value := *r.SourceRepositoryURL
		clone.SourceRepositoryURL = &value
	}
	clone.Screenshots = append([]string(nil), r.Screenshots...)
	clone.OlderVersions = append([]OlderVersion(nil), r.OlderVersions...)
	return &clone
}

// Normalize trims text fields and drops blank screenshot and version rows.
func (r *Record) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Developer = strings.TrimSpace(r.Developer)
	r.Version = strings.TrimSpace(r.Version)
	r.AgeRating = strings.TrimSpace(r.AgeRating)
	r.PackageSize = strings.TrimSpace(r.PackageSize)
	r.DownloadURL = strings.TrimSpace(r.DownloadURL)
	r.IconURL = strings.TrimSpace(r.IconURL)
	if r.SourceRepositoryURL != nil {
		trimmed := strings.TrimSpace(*r.SourceRepositoryURL)
		if trimmed == "" {
			r.SourceRepositoryURL = nil
		} else {
			r.SourceRepositoryURL = &trimmed
		}
	}
	shots := r.Screenshots[:0:0]
	for _, shot := range r.Screenshots {
		if shot = strings.TrimSpace(shot); shot != "" {
			shots = append(shots, shot)
		}
	}
	r.Screenshots = shots
	versions := r.OlderVersions[:0:0]
	for _, v := range r.OlderVersions {
		v.Version = strings.TrimSpace(v.Version)
		if v.Version == "" {
			continue
		}
		v.Date = strings.TrimSpace(v.Date)
		v.URL = strings.TrimSpace(v.URL)
		v.MinOSVersion = strings.TrimSpace(v.MinOSVersion)
		v.PackageType = strings.TrimSpace(v.PackageType)
		versions = append(versions, v)
	}
	r.OlderVersions = versions
}

// Validate reports whether the record can be stored.
func (r *Record) Validate() error {
	if r == nil {
		return services.Wrap(services.ErrValidation, "catalog", "validate", "record is nil", nil)
	}
	if r.Name == "" {
		return services.Wrap(services.ErrValidation, "catalog", "validate", "name is required", nil)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return services.Wrap(services.ErrValidation, "catalog", "validate",
			fmt.Sprintf("rating %.1f outside 0-5", r.Rating), nil)
	}
	if len(r.Screenshots) > MaxScreenshots {
		return services.Wrap(services.ErrValidation, "catalog", "validate",
			fmt.Sprintf("at most %d screenshots allowed, got %d", MaxScreenshots, len(r.Screenshots)), nil)
	}
	if r.DownloadURL != "" && !isAbsoluteURL(r.DownloadURL) {
		return services.Wrap(services.ErrValidation, "catalog", "validate",
			fmt.Sprintf("download url %q is not absolute", r.DownloadURL), nil)
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
