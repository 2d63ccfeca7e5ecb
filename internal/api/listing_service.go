package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"storefront/internal/assets"
	"storefront/internal/catalog"
	"storefront/internal/logging"
	"storefront/internal/releasesync"
	"storefront/internal/services"
	"storefront/internal/viewmodel"
)

// ListingReader is the read side of the catalog used for views.
type ListingReader interface {
	Get(ctx context.Context, id int64) (*catalog.Record, error)
	List(ctx context.Context) ([]*catalog.Record, error)
}

// ReleaseSyncer gathers live release data for a record.
type ReleaseSyncer interface {
	Sync(ctx context.Context, rec *catalog.Record) releasesync.EnrichedRelease
}

// ListingService serves catalog views.
type ListingService struct {
	store         ListingReader
	syncer        ReleaseSyncer
	resolver      assets.Resolver
	resolveOnView bool
	view          viewmodel.Options
	logger        *slog.Logger
}

// ListingOption configures a ListingService.
type ListingOption func(*ListingService)

// WithViewResolution resolves share links while building detail views.
func WithViewResolution(resolver assets.Resolver) ListingOption {
	return func(s *ListingService) {
		s.resolver = resolver
		s.resolveOnView = resolver != nil
	}
}

// WithViewOptions sets placeholders and the timeline duplicate policy.
func WithViewOptions(opts viewmodel.Options) ListingOption {
	return func(s *ListingService) {
		s.view = opts
	}
}

// WithListingLogger sets the logger.
func WithListingLogger(logger *slog.Logger) ListingOption {
	return func(s *ListingService) {
		s.logger = logger
	}
}

// NewListingService constructs a ListingService. A nil syncer disables live data.
func NewListingService(store ListingReader, syncer ReleaseSyncer, opts ...ListingOption) *ListingService {
	if store == nil {
		return nil
	}
	s := &ListingService{store: store, syncer: syncer}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "listings")
	return s
}

// List returns every listing without enrichment.
func (s *ListingService) List(ctx context.Context) ([]ListingSummary, error) {
	if s == nil {
		return nil, nil
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Detail returns the enriched page model for one listing. Release sync and
// asset resolution run concurrently; the model is assembled once all settle.
func (s *ListingService) Detail(ctx context.Context, id int64) (*Listing, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = services.WithListingID(ctx, rec.ID)

	var (
		wg       sync.WaitGroup
		enriched releasesync.EnrichedRelease
		resolved viewmodel.Assets
	)
	if s.syncer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enriched = s.syncer.Sync(ctx, rec)
		}()
	}
	if s.resolveOnView {
		resolved = s.resolveImages(ctx, rec, &wg)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrTimeout, "listings", "detail", "request abandoned", err)
	}

	view := viewmodel.Assemble(rec, enriched, resolved, s.view)
	logging.WithContext(ctx, s.logger).Debug("listing view assembled",
		logging.Bool("live", view.Live),
		logging.String("version", view.Version))
	dto := FromViewModel(view)
	return &dto, nil
}

// Release returns the raw release sync result for one listing.
func (s *ListingService) Release(ctx context.Context, id int64) (*ReleaseInfo, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	var enriched releasesync.EnrichedRelease
	if s.syncer != nil {
		enriched = s.syncer.Sync(services.WithListingID(ctx, rec.ID), rec)
	}
	info := FromEnriched(rec.ID, enriched)
	return &info, nil
}

func (s *ListingService) load(ctx context.Context, id int64) (*catalog.Record, error) {
	if s == nil {
		return nil, services.Wrap(services.ErrConfiguration, "listings", "load", "listing service unavailable", nil)
	}
	if id <= 0 {
		return nil, services.Wrap(services.ErrValidation, "listings", "load", fmt.Sprintf("invalid listing id %d", id), nil)
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, services.Wrap(services.ErrNotFound, "listings", "load", fmt.Sprintf("listing %d", id), nil)
	}
	return rec, nil
}

// resolveImages starts one resolution per image slot. Results are written
// into distinct slots, so no locking is needed; callers must wait on wg.
func (s *ListingService) resolveImages(ctx context.Context, rec *catalog.Record, wg *sync.WaitGroup) viewmodel.Assets {
	out := viewmodel.Assets{Screenshots: make([]assets.Resolved, len(rec.Screenshots))}
	if rec.IconURL != "" {
		icon := &assets.Resolved{}
		out.Icon = icon
		wg.Add(1)
		go func() {
			defer wg.Done()
			*icon = s.resolver.Resolve(ctx, rec.IconURL)
		}()
	}
	for i, shot := range rec.Screenshots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.Screenshots[i] = s.resolver.Resolve(ctx, shot)
		}()
	}
	return out
}
