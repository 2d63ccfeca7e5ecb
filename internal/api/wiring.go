package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"storefront/internal/assets"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/release"
	"storefront/internal/releasesync"
	"storefront/internal/storage"
	"storefront/internal/timeline"
	"storefront/internal/viewmodel"
)

// Services bundles the configured service layer.
type Services struct {
	Listings *ListingService
	Admin    *AdminService
	Resolver assets.Resolver
	Releases release.Client
	Syncer   *releasesync.Syncer
	Uploader *storage.LocalUploader
}

// NewServices wires release lookups, asset resolution, and uploads from cfg
// around store.
func NewServices(cfg *config.Config, store catalog.Repository, logger *slog.Logger) (*Services, error) {
	if cfg == nil || store == nil {
		return nil, fmt.Errorf("config and store are required")
	}

	github, err := release.NewGitHubClient(
		release.WithToken(cfg.GitHub.Token),
		release.WithBaseURL(cfg.GitHub.BaseURL),
		release.WithHTTPClient(&http.Client{Timeout: 2 * cfg.GitHubTimeout()}),
		release.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}
	var releases release.Client = github
	if cfg.CacheTTL() > 0 {
		releases = release.NewCachedClient(github, cfg.CacheTTL(), cfg.Cache.MaxEntries)
	}
	syncer := releasesync.New(releases,
		releasesync.WithHost(cfg.GitHub.WebHost),
		releasesync.WithTimeout(cfg.GitHubTimeout()),
		releasesync.WithLogger(logger),
	)

	httpResolver, err := assets.NewHTTPResolver(cfg.Resolver.BaseURL, cfg.Resolver.Domains,
		assets.WithTimeout(cfg.ResolverTimeout()),
		assets.WithUserAgent(cfg.Resolver.UserAgent),
		assets.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("asset resolver: %w", err)
	}
	var resolver assets.Resolver = httpResolver
	if cfg.CacheTTL() > 0 {
		resolver = assets.NewCachedResolver(httpResolver, cfg.CacheTTL(), cfg.Cache.MaxEntries)
	}

	uploader, err := storage.NewLocalUploader(cfg)
	if err != nil {
		return nil, err
	}

	listingOpts := []ListingOption{
		WithListingLogger(logger),
		WithViewOptions(viewmodel.Options{
			IconPlaceholder:       cfg.View.IconPlaceholder,
			ScreenshotPlaceholder: cfg.View.ScreenshotPlaceholder,
			DuplicatePolicy:       timeline.DuplicatePolicy(cfg.View.DuplicatePolicy),
		}),
	}
	if cfg.Resolver.ResolveOnView {
		listingOpts = append(listingOpts, WithViewResolution(resolver))
	}

	return &Services{
		Listings: NewListingService(store, syncer, listingOpts...),
		Admin:    NewAdminService(store, resolver, uploader, logger),
		Resolver: resolver,
		Releases: releases,
		Syncer:   syncer,
		Uploader: uploader,
	}, nil
}
