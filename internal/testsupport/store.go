package testsupport

import (
	"context"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewListing inserts a listing for tests. The mutate callback may adjust
// fields before insertion.
func NewListing(t testing.TB, store *catalog.Store, name string, mutate func(*catalog.Record)) *catalog.Record {
	t.Helper()

	rec := &catalog.Record{
		Name:        name,
		Category:    "productivity",
		Developer:   "Manual Dev",
		Version:     "1.0.0",
		PackageSize: "4.2 MB",
		DownloadURL: "https://downloads.example.com/" + name + ".apk",
	}
	if mutate != nil {
		mutate(rec)
	}
	created, err := store.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return created
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
