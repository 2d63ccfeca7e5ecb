package catalog_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/testsupport"
)

const seedYAML = `
listings:
  - name: Notely
    category: productivity
    developer: Acme
    version: 1.0.0
    rating: 4.2
    package_size: 12 MB
    download_url: https://downloads.example.com/notely.apk
    source_repository_url: https://github.com/acme/notely
    icon_url: https://pin.it/abc
    screenshots:
      - https://i.imgur.com/one.png
    older_versions:
      - version: 0.9.0
        date: Jan 2024
        url: https://downloads.example.com/notely-0.9.apk
        min_os_version: "8.0"
        package_type: apk
  - name: Sketch
    category: graphics
    version: 2.1
`

func TestParseSeed(t *testing.T) {
	records, err := catalog.ParseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	notely := records[0]
	if notely.SourceRepositoryURL == nil || *notely.SourceRepositoryURL != "https://github.com/acme/notely" {
		t.Fatalf("unexpected source url: %v", notely.SourceRepositoryURL)
	}
	if len(notely.OlderVersions) != 1 || notely.OlderVersions[0].MinOSVersion != "8.0" {
		t.Fatalf("unexpected older versions: %+v", notely.OlderVersions)
	}
	if records[1].SourceRepositoryURL != nil {
		t.Fatal("expected absent source url to stay nil")
	}
	if records[1].Version != "2.1" {
		t.Fatalf("expected numeric yaml version kept as text, got %q", records[1].Version)
	}
}

func TestParseSeedRejectsInvalidListing(t *testing.T) {
	_, err := catalog.ParseSeed([]byte("listings:\n  - category: games\n"))
	if err == nil || !strings.Contains(err.Error(), "seed listing 1") {
		t.Fatalf("expected positional validation error, got %v", err)
	}
}

func TestImportUpsertsByName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	existing := testsupport.NewListing(t, store, "Notely", nil)

	seedPath := filepath.Join(testsupport.BaseDir(cfg), "catalog.yaml")
	testsupport.WriteFile(t, seedPath, []byte(seedYAML))
	records, err := catalog.LoadSeed(seedPath)
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}

	result, err := store.Import(ctx, records)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Created != 1 || result.Updated != 1 {
		t.Fatalf("unexpected import result: %+v", result)
	}

	updated, err := store.Get(ctx, existing.ID)
	if err != nil || updated == nil {
		t.Fatalf("Get failed: %v %v", updated, err)
	}
	if updated.Developer != "Acme" {
		t.Fatalf("expected seed fields applied to existing listing, got developer %q", updated.Developer)
	}
}
