package viewmodel

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storefront/internal/assets"
	"storefront/internal/catalog"
	"storefront/internal/releasesync"
	"storefront/internal/timeline"
)

// Default placeholder identifiers used when no image is available.
const (
	DefaultIconPlaceholder       = "placeholder:app-icon"
	DefaultScreenshotPlaceholder = "placeholder:screenshot"
	DefaultCurrentDateLabel      = "Current"
)

// Listing is the enriched page model.
type Listing struct {
	ID                  int64
	Name                string
	Description         string
	Category            string
	CategoryLabel       string
	Developer           string
	Version             string
	Rating              float64
	AgeRating           string
	SizeLabel           string
	DownloadURL         string
	SourceRepositoryURL *string
	IconURL             string
	Screenshots         []string
	Stars               *int
	Readme              *string
	PublishedAt         *time.Time
	Live                bool
	Timeline            []timeline.Entry
}

// Assets carries resolution outcomes for a record's image fields.
// Screenshots[i] pairs with the record's i-th screenshot; missing or
// unresolved entries fall back to the stored value.
type Assets struct {
	Icon        *assets.Resolved
	Screenshots []assets.Resolved
}

// Options holds presentation settings.
type Options struct {
	IconPlaceholder       string
	ScreenshotPlaceholder string
	CurrentDateLabel      string
	DuplicatePolicy       timeline.DuplicatePolicy
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.IconPlaceholder) == "" {
		o.IconPlaceholder = DefaultIconPlaceholder
	}
	if strings.TrimSpace(o.ScreenshotPlaceholder) == "" {
		o.ScreenshotPlaceholder = DefaultScreenshotPlaceholder
	}
	if strings.TrimSpace(o.CurrentDateLabel) == "" {
		o.CurrentDateLabel = DefaultCurrentDateLabel
	}
	if o.DuplicatePolicy == "" {
		o.DuplicatePolicy = timeline.KeepDuplicates
	}
	return o
}

// Assemble builds the page model. A nil record yields a placeholder-only model.
func Assemble(rec *catalog.Record, enriched releasesync.EnrichedRelease, resolved Assets, opts Options) Listing {
	opts = opts.withDefaults()
	if rec == nil {
		rec = &catalog.Record{}
	}

	view := Listing{
		ID:            rec.ID,
		Name:          rec.Name,
		Description:   rec.Description,
		Category:      rec.Category,
		CategoryLabel: CategoryLabel(rec.Category),
		Developer:     rec.Developer,
		Version:       rec.Version,
		Rating:        rec.Rating,
		AgeRating:     rec.AgeRating,
		SizeLabel:     rec.PackageSize,
		DownloadURL:   rec.DownloadURL,
		IconURL:       pickImage(resolved.Icon, rec.IconURL, opts.IconPlaceholder),
		Readme:        enriched.Readme,
	}
	if rec.SourceRepositoryURL != nil {
		source := *rec.SourceRepositoryURL
		view.SourceRepositoryURL = &source
	}

	if repo := enriched.Repository; repo != nil {
		view.Live = true
		stars := repo.StarCount
		view.Stars = &stars
		if repo.OwnerName != "" {
			view.Developer = repo.OwnerName
		}
		if view.Description == "" && repo.Description != "" {
			view.Description = repo.Description
		}
	}

	snap := enriched.Snapshot
	if snap != nil && strings.TrimSpace(snap.TagName) != "" {
		view.Live = true
		view.Version = strings.TrimSpace(snap.TagName)
		if snap.PrimaryAssetSizeBytes != nil {
			view.SizeLabel = timeline.SizeLabel(*snap.PrimaryAssetSizeBytes)
		}
		if snap.PrimaryAssetDownloadURL != nil && *snap.PrimaryAssetDownloadURL != "" {
			view.DownloadURL = *snap.PrimaryAssetDownloadURL
		}
		if snap.PublishedAt != nil {
			published := *snap.PublishedAt
			view.PublishedAt = &published
		}
		if view.Stars == nil && snap.StarCount != nil {
			stars := *snap.StarCount
			view.Stars = &stars
		}
		if enriched.Repository == nil && snap.OwnerName != nil && *snap.OwnerName != "" {
			view.Developer = *snap.OwnerName
		}
	} else {
		snap = nil
	}
	if enriched.Readme != nil {
		view.Live = true
	}

	view.Screenshots = screenshots(rec.Screenshots, resolved.Screenshots, opts.ScreenshotPlaceholder)
	view.Timeline = timeline.Merge(rec.OlderVersions, snap, rec.Version,
		timeline.WithFallbackSize(rec.PackageSize),
		timeline.WithFallbackDate(opts.CurrentDateLabel),
		timeline.WithFallbackDownload(rec.DownloadURL),
		timeline.WithDuplicatePolicy(opts.DuplicatePolicy))
	return view
}

// CategoryLabel renders a stored category slug for display,
// e.g. "photo_editing" becomes "Photo Editing".
func CategoryLabel(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	words := strings.FieldsFunc(category, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func pickImage(res *assets.Resolved, stored, placeholder string) string {
	if res != nil && res.Status == assets.StatusResolved && res.ResolvedURL != nil && *res.ResolvedURL != "" {
		return *res.ResolvedURL
	}
	if stored = strings.TrimSpace(stored); stored != "" {
		return stored
	}
	return placeholder
}

func screenshots(stored []string, resolved []assets.Resolved, placeholder string) []string {
	if len(stored) == 0 {
		return []string{placeholder}
	}
	out := make([]string, 0, len(stored))
	for i, value := range stored {
		var res *assets.Resolved
		if i < len(resolved) {
			res = &resolved[i]
		}
		out = append(out, pickImage(res, value, placeholder))
	}
	return out
}
