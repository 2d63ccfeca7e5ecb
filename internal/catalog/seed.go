package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlSeed struct {
	Listings []yamlListing `yaml:"listings"`
}

type yamlListing struct {
	Name                string         `yaml:"name"`
	Description         string         `yaml:"description"`
	Category            string         `yaml:"category"`
	Developer           string         `yaml:"developer"`
	Version             string         `yaml:"version"`
	Rating              float64        `yaml:"rating"`
	AgeRating           string         `yaml:"age_rating"`
	PackageSize         string         `yaml:"package_size"`
	DownloadURL         string         `yaml:"download_url"`
	SourceRepositoryURL string         `yaml:"source_repository_url"`
	IconURL             string         `yaml:"icon_url"`
	Screenshots         []string       `yaml:"screenshots"`
	OlderVersions       []OlderVersion `yaml:"older_versions"`
}

// LoadSeed parses a YAML listing file into validated records.
func LoadSeed(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed parses YAML bytes into validated records.
func ParseSeed(data []byte) ([]*Record, error) {
	var seed yamlSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}

	records := make([]*Record, 0, len(seed.Listings))
	for i, raw := range seed.Listings {
		rec := convertListing(raw)
		rec.Normalize()
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("seed listing %d (%q): %w", i+1, raw.Name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func convertListing(raw yamlListing) *Record {
	rec := &Record{
		Name:          raw.Name,
		Description:   raw.Description,
		Category:      raw.Category,
		Developer:     raw.Developer,
		Version:       raw.Version,
		Rating:        raw.Rating,
		AgeRating:     raw.AgeRating,
		PackageSize:   raw.PackageSize,
		DownloadURL:   raw.DownloadURL,
		IconURL:       raw.IconURL,
		Screenshots:   raw.Screenshots,
		OlderVersions: raw.OlderVersions,
	}
	if raw.SourceRepositoryURL != "" {
		source := raw.SourceRepositoryURL
		rec.SourceRepositoryURL = &source
	}
	return rec
}

// ImportResult summarizes an Import run.
type ImportResult struct {
	Created int
	Updated int
}

// Import upserts records by name: existing listings keep their ID and
// receive the seed's fields, new ones are inserted.
func (s *Store) Import(ctx context.Context, records []*Record) (ImportResult, error) {
	var result ImportResult
	for _, rec := range records {
		existing, err := s.FindByName(ctx, rec.Name)
		if err != nil {
			return result, err
		}
		if existing == nil {
			if _, err := s.Create(ctx, rec); err != nil {
				return result, fmt.Errorf("import %q: %w", rec.Name, err)
			}
			result.Created++
			continue
		}
		update := rec.Clone()
		update.ID = existing.ID
		if err := s.Update(ctx, update); err != nil {
			return result, fmt.Errorf("import %q: %w", rec.Name, err)
		}
		result.Updated++
	}
	return result, nil
}
