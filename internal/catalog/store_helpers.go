package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const listingColumns = "id, name, description, category, developer, version, rating, age_rating, package_size, download_url, source_repository_url, icon_url, screenshots_json, older_versions_json, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id            int64
		name          string
		description   sql.NullString
		category      sql.NullString
		developer     sql.NullString
		version       sql.NullString
		rating        sql.NullFloat64
		ageRating     sql.NullString
		packageSize   sql.NullString
		downloadURL   sql.NullString
		sourceRepo    sql.NullString
		iconURL       sql.NullString
		screenshots   sql.NullString
		olderVersions sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&description,
		&category,
		&developer,
		&version,
		&rating,
		&ageRating,
		&packageSize,
		&downloadURL,
		&sourceRepo,
		&iconURL,
		&screenshots,
		&olderVersions,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          id,
		Name:        name,
		Description: description.String,
		Category:    category.String,
		Developer:   developer.String,
		Version:     version.String,
		Rating:      rating.Float64,
		AgeRating:   ageRating.String,
		PackageSize: packageSize.String,
		DownloadURL: downloadURL.String,
		IconURL:     iconURL.String,
	}
	if sourceRepo.Valid {
		value := sourceRepo.String
		rec.SourceRepositoryURL = &value
	}
	if screenshots.Valid && screenshots.String != "" {
		if err := json.Unmarshal([]byte(screenshots.String), &rec.Screenshots); err != nil {
			return nil, fmt.Errorf("decode screenshots for listing %d: %w", id, err)
		}
	}
	if olderVersions.Valid && olderVersions.String != "" {
		if err := json.Unmarshal([]byte(olderVersions.String), &rec.OlderVersions); err != nil {
			return nil, fmt.Errorf("decode older versions for listing %d: %w", id, err)
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableStringPtr(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableJSON(value any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
