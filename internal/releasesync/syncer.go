package releasesync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/logging"
	"storefront/internal/release"
)

// DefaultTimeout bounds each lookup when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// EnrichedRelease is the outcome of one sync. Any field may be nil.
type EnrichedRelease struct {
	Repository *release.RepoMeta
	Snapshot   *release.Snapshot
	Readme     *string
}

// Empty reports whether no lookup produced data.
func (e EnrichedRelease) Empty() bool {
	return e.Repository == nil && e.Snapshot == nil && e.Readme == nil
}

// Syncer coordinates the three release lookups for a record.
type Syncer struct {
	client  release.Client
	host    string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithHost matches repository URLs against a different web host.
func WithHost(host string) Option {
	return func(s *Syncer) {
		if host != "" {
			s.host = host
		}
	}
}

// WithTimeout sets the per-lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Syncer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// New constructs a Syncer around client.
func New(client release.Client, opts ...Option) *Syncer {
	s := &Syncer{
		client:  client,
		host:    release.DefaultHost,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "releasesync")
	return s
}

// Sync runs the lookups for rec and waits for all of them to settle.
// Cancelling ctx abandons outstanding lookups; their slots stay nil.
func (s *Syncer) Sync(ctx context.Context, rec *catalog.Record) EnrichedRelease {
	if s == nil || s.client == nil || rec == nil || rec.SourceRepositoryURL == nil || ctx.Err() != nil {
		return EnrichedRelease{}
	}
	ref, ok := release.ParseRefForHost(*rec.SourceRepositoryURL, s.host)
	if !ok {
		logging.WithContext(ctx, s.logger).Debug("source repository url not recognized",
			logging.String("source_repository_url", *rec.SourceRepositoryURL))
		return EnrichedRelease{}
	}

	var (
		wg     sync.WaitGroup
		result EnrichedRelease
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		result.Repository = s.client.FetchRepository(callCtx, ref)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		result.Snapshot = s.client.FetchLatestRelease(callCtx, ref)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		result.Readme = s.client.FetchReadme(callCtx, ref)
	}()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	if ctx.Err() != nil {
		return EnrichedRelease{}
	}

	if result.Snapshot != nil && result.Repository != nil {
		stars := result.Repository.StarCount
		result.Snapshot.StarCount = &stars
		if owner := result.Repository.OwnerName; owner != "" {
			result.Snapshot.OwnerName = &owner
		}
	}

	logging.WithContext(ctx, s.logger).Debug("release sync finished",
		logging.String(logging.FieldRepository, ref.String()),
		logging.Bool("repository", result.Repository != nil),
		logging.Bool("release", result.Snapshot != nil),
		logging.Bool("readme", result.Readme != nil))
	return result
}
