package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGitHub()
	c.normalizeResolver()
	c.normalizeCache()
	c.normalizeStorage()
	c.normalizeView()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.UploadDir) == "" {
		c.Paths.UploadDir = defaultUploadDir
	}
	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if c.Paths.SeedFile, err = expandPath(strings.TrimSpace(c.Paths.SeedFile)); err != nil {
		return fmt.Errorf("paths.seed_file: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if value, ok := lookupEnv("STOREFRONT_API_TOKEN"); ok {
		c.Paths.APIToken = value
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeGitHub() {
	if value, ok := lookupEnv("GITHUB_TOKEN"); ok {
		c.GitHub.Token = value
	}
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)
	c.GitHub.BaseURL = strings.TrimSpace(c.GitHub.BaseURL)
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = defaultGitHubBaseURL
	}
	if !strings.HasSuffix(c.GitHub.BaseURL, "/") {
		c.GitHub.BaseURL += "/"
	}
	c.GitHub.WebHost = strings.ToLower(strings.TrimSpace(c.GitHub.WebHost))
	if c.GitHub.WebHost == "" {
		c.GitHub.WebHost = defaultGitHubWebHost
	}
	if c.GitHub.TimeoutSeconds <= 0 {
		c.GitHub.TimeoutSeconds = defaultGitHubTimeout
	}
}

func (c *Config) normalizeResolver() {
	if value, ok := lookupEnv("STOREFRONT_RESOLVER_URL"); ok {
		c.Resolver.BaseURL = value
	}
	c.Resolver.BaseURL = strings.TrimRight(strings.TrimSpace(c.Resolver.BaseURL), "/")
	if c.Resolver.TimeoutSeconds <= 0 {
		c.Resolver.TimeoutSeconds = defaultResolverTimeout
	}
	c.Resolver.UserAgent = strings.TrimSpace(c.Resolver.UserAgent)
	if c.Resolver.UserAgent == "" {
		c.Resolver.UserAgent = defaultResolverUserAgent
	}
	domains := make([]string, 0, len(c.Resolver.Domains))
	seen := make(map[string]struct{}, len(c.Resolver.Domains))
	for _, domain := range c.Resolver.Domains {
		normalized := strings.ToLower(strings.TrimSpace(domain))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		domains = append(domains, normalized)
	}
	c.Resolver.Domains = domains
}

func (c *Config) normalizeCache() {
	if c.Cache.TTLSeconds < 0 {
		c.Cache.TTLSeconds = 0
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = defaultCacheMaxEntries
	}
}

func (c *Config) normalizeStorage() {
	c.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.PublicBaseURL), "/")
	if c.Storage.PublicBaseURL == "" {
		c.Storage.PublicBaseURL = defaultPublicBaseURL
	}
	if c.Storage.MaxUploadMiB <= 0 {
		c.Storage.MaxUploadMiB = defaultMaxUploadMiB
	}
}

func (c *Config) normalizeView() {
	c.View.IconPlaceholder = strings.TrimSpace(c.View.IconPlaceholder)
	if c.View.IconPlaceholder == "" {
		c.View.IconPlaceholder = defaultIconPlaceholder
	}
	c.View.ScreenshotPlaceholder = strings.TrimSpace(c.View.ScreenshotPlaceholder)
	if c.View.ScreenshotPlaceholder == "" {
		c.View.ScreenshotPlaceholder = defaultScreenshotPlaceholder
	}
	c.View.DuplicatePolicy = strings.ToLower(strings.TrimSpace(c.View.DuplicatePolicy))
	if c.View.DuplicatePolicy == "" {
		c.View.DuplicatePolicy = DuplicateKeep
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
