package api

import (
	"time"

	"storefront/internal/catalog"
	"storefront/internal/release"
	"storefront/internal/releasesync"
	"storefront/internal/timeline"
	"storefront/internal/viewmodel"
)

// FromRecord converts a stored listing to its grid representation.
func FromRecord(rec *catalog.Record) ListingSummary {
	if rec == nil {
		return ListingSummary{}
	}
	return ListingSummary{
		ID:            rec.ID,
		Name:          rec.Name,
		Category:      rec.Category,
		CategoryLabel: viewmodel.CategoryLabel(rec.Category),
		Developer:     rec.Developer,
		Version:       rec.Version,
		Rating:        rec.Rating,
		IconURL:       rec.IconURL,
		HasRepository: rec.SourceRepositoryURL != nil,
		UpdatedAt:     formatTime(rec.UpdatedAt),
	}
}

// FromRecords converts a slice of stored listings.
func FromRecords(records []*catalog.Record) []ListingSummary {
	out := make([]ListingSummary, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, FromRecord(rec))
	}
	return out
}

// ToListingRecord converts a stored listing to its admin representation.
func ToListingRecord(rec *catalog.Record) ListingRecord {
	if rec == nil {
		return ListingRecord{}
	}
	input := ListingInput{
		Name:                rec.Name,
		Description:         rec.Description,
		Category:            rec.Category,
		Developer:           rec.Developer,
		Version:             rec.Version,
		Rating:              rec.Rating,
		AgeRating:           rec.AgeRating,
		PackageSize:         rec.PackageSize,
		DownloadURL:         rec.DownloadURL,
		SourceRepositoryURL: rec.SourceRepositoryURL,
		IconURL:             rec.IconURL,
		Screenshots:         append([]string{}, rec.Screenshots...),
		OlderVersions:       make([]OlderVersion, 0, len(rec.OlderVersions)),
	}
	for _, v := range rec.OlderVersions {
		input.OlderVersions = append(input.OlderVersions, OlderVersion(v))
	}
	return ListingRecord{
		ID:           rec.ID,
		ListingInput: input,
		CreatedAt:    formatTime(rec.CreatedAt),
		UpdatedAt:    formatTime(rec.UpdatedAt),
	}
}

// Record converts the payload into a catalog record without an ID.
func (in ListingInput) Record() *catalog.Record {
	rec := &catalog.Record{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Developer:   in.Developer,
		Version:     in.Version,
		Rating:      in.Rating,
		AgeRating:   in.AgeRating,
		PackageSize: in.PackageSize,
		DownloadURL: in.DownloadURL,
		IconURL:     in.IconURL,
		Screenshots: append([]string(nil), in.Screenshots...),
	}
	if in.SourceRepositoryURL != nil {
		source := *in.SourceRepositoryURL
		rec.SourceRepositoryURL = &source
	}
	for _, v := range in.OlderVersions {
		rec.OlderVersions = append(rec.OlderVersions, catalog.OlderVersion(v))
	}
	return rec
}

// FromViewModel converts an assembled page model.
func FromViewModel(view viewmodel.Listing) Listing {
	dto := Listing{
		ID:                  view.ID,
		Name:                view.Name,
		Description:         view.Description,
		Category:            view.Category,
		CategoryLabel:       view.CategoryLabel,
		Developer:           view.Developer,
		Version:             view.Version,
		Rating:              view.Rating,
		AgeRating:           view.AgeRating,
		SizeLabel:           view.SizeLabel,
		DownloadURL:         view.DownloadURL,
		SourceRepositoryURL: view.SourceRepositoryURL,
		IconURL:             view.IconURL,
		Screenshots:         append([]string{}, view.Screenshots...),
		Stars:               view.Stars,
		Readme:              view.Readme,
		PublishedAt:         formatTimePtr(view.PublishedAt),
		Live:                view.Live,
		Timeline:            FromTimeline(view.Timeline),
	}
	return dto
}

// FromTimeline converts merged version rows.
func FromTimeline(entries []timeline.Entry) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, TimelineEntry{
			Version:      e.Version,
			Date:         e.Date,
			SizeLabel:    e.SizeLabel,
			SourceKind:   string(e.SourceKind),
			DownloadURL:  e.DownloadURL,
			MinOSVersion: e.MinOSVersion,
			PackageType:  e.PackageType,
		})
	}
	return out
}

// FromEnriched converts a sync result.
func FromEnriched(listingID int64, enriched releasesync.EnrichedRelease) ReleaseInfo {
	info := ReleaseInfo{
		ListingID: listingID,
		Readme:    enriched.Readme,
	}
	if repo := enriched.Repository; repo != nil {
		info.Repository = fromRepoMeta(repo)
	}
	if snap := enriched.Snapshot; snap != nil {
		info.Snapshot = fromSnapshot(snap)
	}
	return info
}

func fromRepoMeta(repo *release.RepoMeta) *RepositoryInfo {
	return &RepositoryInfo{
		FullName:      repo.FullName,
		Description:   repo.Description,
		HTMLURL:       repo.HTMLURL,
		DefaultBranch: repo.DefaultBranch,
		Stars:         repo.StarCount,
		Owner:         repo.OwnerName,
		Archived:      repo.Archived,
		Topics:        repo.Topics,
	}
}

func fromSnapshot(snap *release.Snapshot) *ReleaseSnapshot {
	return &ReleaseSnapshot{
		TagName:                 snap.TagName,
		PublishedAt:             formatTimePtr(snap.PublishedAt),
		PrimaryAssetSizeBytes:   snap.PrimaryAssetSizeBytes,
		PrimaryAssetDownloadURL: snap.PrimaryAssetDownloadURL,
		StarCount:               snap.StarCount,
		OwnerName:               snap.OwnerName,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	formatted := formatTime(*t)
	return &formatted
}
