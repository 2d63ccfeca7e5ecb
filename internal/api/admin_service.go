package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/assets"
	"storefront/internal/catalog"
	"storefront/internal/logging"
	"storefront/internal/services"
	"storefront/internal/storage"
)

// ResolveError is returned when the resolution service could not turn a
// share link into an image URL. Message is the service's own text and is
// meant to be shown to the administrator. The stored record is unchanged.
type ResolveError struct {
	Field     string
	SourceURL string
	Message   string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %s", e.Field, e.Message)
}

// AdminService performs the write operations behind the admin routes.
type AdminService struct {
	store    catalog.Repository
	resolver assets.Resolver
	uploader storage.Uploader
	logger   *slog.Logger
}

// NewAdminService constructs an AdminService. resolver and uploader may be
// nil, which disables the corresponding operations.
func NewAdminService(store catalog.Repository, resolver assets.Resolver, uploader storage.Uploader, logger *slog.Logger) *AdminService {
	if store == nil {
		return nil
	}
	return &AdminService{
		store:    store,
		resolver: resolver,
		uploader: uploader,
		logger:   logging.NewComponentLogger(logger, "admin"),
	}
}

// Get returns the stored form of a listing.
func (s *AdminService) Get(ctx context.Context, id int64) (*ListingRecord, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToListingRecord(rec)
	return &dto, nil
}

// Create stores a new listing.
func (s *AdminService) Create(ctx context.Context, input ListingInput) (*ListingRecord, error) {
	if s == nil {
		return nil, errUnavailable("create")
	}
	created, err := s.store.Create(ctx, input.Record())
	if err != nil {
		return nil, err
	}
	logging.WithContext(services.WithListingID(ctx, created.ID), s.logger).Info("listing created",
		logging.String("name", created.Name))
	dto := ToListingRecord(created)
	return &dto, nil
}

// Update replaces the stored fields of a listing.
func (s *AdminService) Update(ctx context.Context, id int64, input ListingInput) (*ListingRecord, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := input.Record()
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	if err := s.store.Update(ctx, rec); err != nil {
		return nil, err
	}
	logging.WithContext(services.WithListingID(ctx, id), s.logger).Info("listing updated")
	return s.Get(ctx, id)
}

// Delete removes a listing.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if s == nil {
		return errUnavailable("delete")
	}
	if id <= 0 {
		return services.Wrap(services.ErrValidation, "admin", "delete", fmt.Sprintf("invalid listing id %d", id), nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logging.WithContext(services.WithListingID(ctx, id), s.logger).Info("listing deleted")
	return nil
}

// ResolveAsset resolves shareURL and stores the result in field. Links
// outside the resolution whitelist are stored as given. A failed resolution,
// or a whitelisted link while resolution is disabled, returns *ResolveError
// and leaves the record untouched.
func (s *AdminService) ResolveAsset(ctx context.Context, id int64, field, shareURL string) (*AssetResult, error) {
	target, err := ParseAssetField(field)
	if err != nil {
		return nil, err
	}
	shareURL = strings.TrimSpace(shareURL)
	if !assets.IsAbsoluteURL(shareURL) {
		return nil, services.Wrap(services.ErrValidation, "admin", "resolve asset",
			fmt.Sprintf("%q is not an absolute http(s) url", shareURL), nil)
	}
	if s == nil || s.resolver == nil {
		return nil, errUnavailable("resolve asset")
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = services.WithListingID(ctx, rec.ID)

	res := s.resolver.Resolve(ctx, shareURL)
	accepted := res.Status == assets.StatusResolved || (res.Status == assets.StatusDirect && !res.Disabled)
	if !accepted {
		message := strings.TrimSpace(res.Message)
		switch {
		case res.Disabled:
			message = "image resolution is disabled; upload the image instead"
		case message == "":
			message = "image could not be resolved"
		}
		logging.WithContext(ctx, s.logger).Info("asset resolution rejected",
			logging.String("field", target.String()),
			logging.String("source_url", shareURL),
			logging.String("message", message))
		return nil, &ResolveError{Field: target.String(), SourceURL: shareURL, Message: message}
	}

	value := res.URL()
	written, err := s.writeField(ctx, rec, target, value)
	if err != nil {
		return nil, err
	}
	return &AssetResult{
		Field:     written.String(),
		SourceURL: shareURL,
		URL:       value,
		Status:    string(res.Status),
		Message:   res.Message,
	}, nil
}

// UploadAsset stores image bytes and writes the public URL into field.
func (s *AdminService) UploadAsset(ctx context.Context, id int64, field string, data []byte) (*AssetResult, error) {
	target, err := ParseAssetField(field)
	if err != nil {
		return nil, err
	}
	if s == nil || s.uploader == nil {
		return nil, errUnavailable("upload asset")
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = services.WithListingID(ctx, rec.ID)
	if _, err := target.apply(rec.Clone(), "placeholder"); err != nil {
		return nil, err
	}

	publicURL, err := s.uploader.Upload(ctx, data)
	if err != nil {
		return nil, err
	}
	written, err := s.writeField(ctx, rec, target, publicURL)
	if err != nil {
		return nil, err
	}
	return &AssetResult{
		Field:  written.String(),
		URL:    publicURL,
		Status: "uploaded",
	}, nil
}

func (s *AdminService) writeField(ctx context.Context, rec *catalog.Record, target AssetField, value string) (AssetField, error) {
	draft := rec.Clone()
	previous := target.current(draft)
	written, err := target.apply(draft, value)
	if err != nil {
		return target, err
	}
	if err := s.store.Update(ctx, draft); err != nil {
		return target, err
	}
	logging.WithContext(ctx, s.logger).Info("listing image updated",
		logging.String("field", written.String()),
		logging.String("previous", previous),
		logging.String("url", value))
	return written, nil
}

func (s *AdminService) load(ctx context.Context, id int64) (*catalog.Record, error) {
	if s == nil {
		return nil, errUnavailable("load")
	}
	if id <= 0 {
		return nil, services.Wrap(services.ErrValidation, "admin", "load", fmt.Sprintf("invalid listing id %d", id), nil)
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, services.Wrap(services.ErrNotFound, "admin", "load", fmt.Sprintf("listing %d", id), nil)
	}
	return rec, nil
}

func errUnavailable(op string) error {
	return services.Wrap(services.ErrConfiguration, "admin", op, "operation not configured", nil)
}
