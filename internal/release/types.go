package release

import (
	"context"
	"time"
)

// RepoMeta is repository-level metadata.
type RepoMeta struct {
	FullName      string
	Description   string
	HTMLURL       string
	DefaultBranch string
	StarCount     int
	OwnerName     string
	Archived      bool
	Topics        []string
}

// Snapshot summarizes a repository's latest published release. Every field
// other than TagName may be absent.
type Snapshot struct {
	TagName                 string
	PublishedAt             *time.Time
	PrimaryAssetSizeBytes   *int64
	PrimaryAssetDownloadURL *string
	StarCount               *int
	OwnerName               *string
}

// Client performs the three release lookups. Each returns nil on any failure.
type Client interface {
	FetchRepository(ctx context.Context, ref Ref) *RepoMeta
	FetchLatestRelease(ctx context.Context, ref Ref) *Snapshot
	FetchReadme(ctx context.Context, ref Ref) *string
}
