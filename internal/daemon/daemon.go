package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"storefront/internal/api"
	"storefront/internal/assets"
	"storefront/internal/assets/ogimage"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
)

// Daemon owns the HTTP API lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *catalog.Store
	services  *api.Services
	extractor *ogimage.Extractor
	server    *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool   `json:"running"`
	Address      string `json:"address,omitempty"`
	DatabasePath string `json:"databasePath"`
	LockFilePath string `json:"lockFilePath"`
	Listings     int    `json:"listings"`
}

// New constructs a daemon around an open store and wired services.
func New(cfg *config.Config, store *catalog.Store, svcs *api.Services, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || svcs == nil {
		return nil, errors.New("daemon requires config, store, and services")
	}
	logger = logging.NewComponentLogger(logger, "daemon")
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		services: svcs,
		extractor: ogimage.NewExtractor(
			ogimage.WithUserAgent(cfg.Resolver.UserAgent),
			ogimage.WithLogger(logger),
			ogimage.WithAllowedHosts(func(host string) bool {
				return assets.NewWhitelist(cfg.Resolver.Domains).Matches(host)
			}),
		),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and begins serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another storefront daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("storefront daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.address()))
	return nil
}

// Stop shuts down the HTTP API and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("storefront daemon stopped")
}

// Close stops the daemon. The store is owned by the caller.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Address returns the bound listen address, or "" before Start.
func (d *Daemon) Address() string {
	return d.server.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		Address:      d.server.address(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if records, err := d.store.List(ctx); err == nil {
		status.Listings = len(records)
	}
	return status
}
