package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ListingSummary is the catalog grid representation of a stored listing.
type ListingSummary struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CategoryLabel string  `json:"categoryLabel"`
	Developer     string  `json:"developer"`
	Version       string  `json:"version"`
	Rating        float64 `json:"rating"`
	IconURL       string  `json:"iconUrl"`
	HasRepository bool    `json:"hasRepository"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

// Listing is the enriched detail page payload.
type Listing struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	CategoryLabel       string          `json:"categoryLabel"`
	Developer           string          `json:"developer"`
	Version             string          `json:"version"`
	Rating              float64         `json:"rating"`
	AgeRating           string          `json:"ageRating,omitempty"`
	SizeLabel           string          `json:"sizeLabel"`
	DownloadURL         string          `json:"downloadUrl"`
	SourceRepositoryURL *string         `json:"sourceRepositoryUrl"`
	IconURL             string          `json:"iconUrl"`
	Screenshots         []string        `json:"screenshots"`
	Stars               *int            `json:"stars"`
	Readme              *string         `json:"readme"`
	PublishedAt         *string         `json:"publishedAt"`
	Live                bool            `json:"live"`
	Timeline            []TimelineEntry `json:"timeline"`
}

// TimelineEntry is one version history row.
type TimelineEntry struct {
	Version      string  `json:"version"`
	Date         string  `json:"date"`
	SizeLabel    string  `json:"sizeLabel,omitempty"`
	SourceKind   string  `json:"sourceKind"`
	DownloadURL  *string `json:"downloadUrl"`
	MinOSVersion string  `json:"minOsVersion,omitempty"`
	PackageType  string  `json:"packageType,omitempty"`
}

// ReleaseInfo exposes the raw outcome of a release sync.
type ReleaseInfo struct {
	ListingID  int64            `json:"listingId"`
	Repository *RepositoryInfo  `json:"repository"`
	Snapshot   *ReleaseSnapshot `json:"snapshot"`
	Readme     *string          `json:"readme"`
}

// RepositoryInfo mirrors release.RepoMeta.
type RepositoryInfo struct {
	FullName      string   `json:"fullName"`
	Description   string   `json:"description,omitempty"`
	HTMLURL       string   `json:"htmlUrl,omitempty"`
	DefaultBranch string   `json:"defaultBranch,omitempty"`
	Stars         int      `json:"stars"`
	Owner         string   `json:"owner"`
	Archived      bool     `json:"archived"`
	Topics        []string `json:"topics,omitempty"`
}

// ReleaseSnapshot mirrors release.Snapshot.
type ReleaseSnapshot struct {
	TagName                 string  `json:"tagName"`
	PublishedAt             *string `json:"publishedAt"`
	PrimaryAssetSizeBytes   *int64  `json:"primaryAssetSizeBytes"`
	PrimaryAssetDownloadURL *string `json:"primaryAssetDownloadUrl"`
	StarCount               *int    `json:"starCount"`
	OwnerName               *string `json:"ownerName"`
}

// OlderVersion is the wire form of a curated version row.
type OlderVersion struct {
	Version      string `json:"version"`
	Date         string `json:"date,omitempty"`
	URL          string `json:"url,omitempty"`
	MinOSVersion string `json:"minOsVersion,omitempty"`
	PackageType  string `json:"packageType,omitempty"`
}

// ListingInput is the admin create/update payload. Update replaces every
// field of the stored record.
type ListingInput struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	Category            string         `json:"category"`
	Developer           string         `json:"developer"`
	Version             string         `json:"version"`
	Rating              float64        `json:"rating"`
	AgeRating           string         `json:"ageRating"`
	PackageSize         string         `json:"packageSize"`
	DownloadURL         string         `json:"downloadUrl"`
	SourceRepositoryURL *string        `json:"sourceRepositoryUrl"`
	IconURL             string         `json:"iconUrl"`
	Screenshots         []string       `json:"screenshots"`
	OlderVersions       []OlderVersion `json:"olderVersions"`
}

// ListingRecord is the stored, unenriched form returned by admin routes.
type ListingRecord struct {
	ID int64 `json:"id"`
	ListingInput
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ResolveAssetRequest asks the admin service to resolve a share link into a field.
type ResolveAssetRequest struct {
	Field string `json:"field"`
	URL   string `json:"url"`
}

// AssetResult reports the value written into an image field.
type AssetResult struct {
	Field     string `json:"field"`
	SourceURL string `json:"sourceUrl,omitempty"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// ListingListResponse wraps the catalog grid.
type ListingListResponse struct {
	Items []ListingSummary `json:"items"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
