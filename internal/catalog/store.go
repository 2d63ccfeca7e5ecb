package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/services"
)

// Get fetches a listing by identifier. It returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return rec, nil
}

// FindByName returns the listing with the given name, or (nil, nil).
func (s *Store) FindByName(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE name = ?`, strings.TrimSpace(name))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing by name: %w", err)
	}
	return rec, nil
}

// List returns all listings ordered by name.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return records, nil
}

// Create inserts a new listing and returns the stored copy.
func (s *Store) Create(ctx context.Context, rec *Record) (*Record, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	draft := rec.Clone()
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	args, err := recordArgs(draft)
	if err != nil {
		return nil, err
	}
	timestamp := formatTime(time.Now())
	args = append(args, timestamp, timestamp)

	res, err := s.execWithRetry(ctx,
		`INSERT INTO listings (
            name, description, category, developer, version, rating, age_rating,
            package_size, download_url, source_repository_url, icon_url,
            screenshots_json, older_versions_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrValidation, "catalog", "create",
				fmt.Sprintf("listing %q already exists", draft.Name), nil)
		}
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Update persists changes to an existing listing.
func (s *Store) Update(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	draft := rec.Clone()
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return err
	}
	args, err := recordArgs(draft)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	args = append(args, formatTime(now), draft.ID)

	res, err := s.execWithRetry(ctx,
		`UPDATE listings
         SET name = ?, description = ?, category = ?, developer = ?, version = ?,
             rating = ?, age_rating = ?, package_size = ?, download_url = ?,
             source_repository_url = ?, icon_url = ?, screenshots_json = ?,
             older_versions_json = ?, updated_at = ?
         WHERE id = ?`,
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return services.Wrap(services.ErrValidation, "catalog", "update",
				fmt.Sprintf("listing %q already exists", draft.Name), nil)
		}
		return fmt.Errorf("update listing: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "update", fmt.Sprintf("listing %d", draft.ID), nil)
	}
	rec.UpdatedAt = now
	return nil
}

// Delete removes a listing.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "delete", fmt.Sprintf("listing %d", id), nil)
	}
	return nil
}

func recordArgs(rec *Record) ([]any, error) {
	screenshots, err := nullableJSON(rec.Screenshots, len(rec.Screenshots) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode screenshots: %w", err)
	}
	olderVersions, err := nullableJSON(rec.OlderVersions, len(rec.OlderVersions) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode older versions: %w", err)
	}
	return []any{
		rec.Name,
		nullableString(rec.Description),
		nullableString(rec.Category),
		nullableString(rec.Developer),
		nullableString(rec.Version),
		rec.Rating,
		nullableString(rec.AgeRating),
		nullableString(rec.PackageSize),
		nullableString(rec.DownloadURL),
		nullableStringPtr(rec.SourceRepositoryURL),
		nullableString(rec.IconURL),
		screenshots,
		olderVersions,
	}, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
