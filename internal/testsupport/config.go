package testsupport

import (
	"path/filepath"
	"testing"

	"storefront/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Outbound services point at unroutable defaults until overridden.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.UploadDir = filepath.Join(base, "uploads")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.GitHub.BaseURL = "http://127.0.0.1:1/"
	cfgVal.Resolver.BaseURL = "http://127.0.0.1:1"
	cfgVal.GitHub.TimeoutSeconds = 2
	cfgVal.Resolver.TimeoutSeconds = 2
	cfgVal.Cache.TTLSeconds = 0

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithGitHubBaseURL points release lookups at a test server.
func WithGitHubBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GitHub.BaseURL = url + "/"
	}
}

// WithResolverBaseURL points asset resolution at a test server.
func WithResolverBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resolver.BaseURL = url
	}
}

// WithAPIToken enables admin routes with the given bearer token.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithCacheTTL enables lookup caching.
func WithCacheTTL(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.TTLSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
