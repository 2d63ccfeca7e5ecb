package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/daemon"
	"storefront/internal/logging"
	"storefront/internal/preflight"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// Ready, when set, is called with the bound API address once the daemon
	// is serving.
	Ready func(address string)
}

// Run starts the storefront daemon and blocks until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "storefrontd.log")},
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logDependencySnapshot(logger, cfg)
	logPreflight(signalCtx, logger, cfg)

	pidPath := PIDPath(cfg)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Error("open catalog store", logging.Error(err))
		return err
	}
	defer store.Close()

	if err := importSeed(signalCtx, logger, store, cfg.Paths.SeedFile); err != nil {
		logging.WarnWithContext(logger, "seed import failed", "seed_import_failed",
			logging.Error(err),
			logging.String("seed_file", cfg.Paths.SeedFile),
			logging.String(logging.FieldErrorHint, "fix the seed file or run storefront listing import"),
			logging.String(logging.FieldImpact, "catalog served without seed changes"))
	}

	svcs, err := api.NewServices(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	d, err := daemon.New(cfg, store, svcs, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.api_bind and that no other storefrontd is running"))
		return err
	}
	if opts.Ready != nil {
		opts.Ready(d.Address())
	}

	<-signalCtx.Done()
	logger.Info("storefront daemon shutting down")
	return nil
}

// PIDPath returns the pid file location for cfg.
func PIDPath(cfg *config.Config) string {
	if cfg == nil || cfg.Paths.DataDir == "" {
		return ""
	}
	return filepath.Join(cfg.Paths.DataDir, "storefrontd.pid")
}

func importSeed(ctx context.Context, logger *slog.Logger, store *catalog.Store, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	records, err := catalog.LoadSeed(path)
	if err != nil {
		return err
	}
	result, err := store.Import(ctx, records)
	if err != nil {
		return err
	}
	logger.Info("seed imported",
		logging.String(logging.FieldEventType, "seed_imported"),
		logging.String("seed_file", path),
		logging.Int("created", result.Created),
		logging.Int("updated", result.Updated))
	return nil
}

func logPreflight(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run storefront doctor for details"),
			logging.String(logging.FieldImpact, "listings may show fallback data"))
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.String("github_base_url", cfg.GitHub.BaseURL),
		logging.Bool("github_token_present", strings.TrimSpace(cfg.GitHub.Token) != ""),
		logging.String("resolver_base_url", cfg.Resolver.BaseURL),
		logging.Bool("resolve_on_view", cfg.Resolver.ResolveOnView),
		logging.Int("resolver_domains", len(cfg.Resolver.Domains)),
		logging.Int("cache_ttl_seconds", cfg.Cache.TTLSeconds),
		logging.Bool("admin_api_enabled", strings.TrimSpace(cfg.Paths.APIToken) != ""),
		logging.String("database", cfg.DatabasePath()),
	)
}
