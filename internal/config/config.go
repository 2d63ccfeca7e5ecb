package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	UploadDir string `toml:"upload_dir"`
	SeedFile  string `toml:"seed_file"`
	APIBind   string `toml:"api_bind"`
	APIToken  string `toml:"api_token"`
}

// GitHub contains configuration for the release source API.
type GitHub struct {
	Token          string `toml:"token"`
	BaseURL        string `toml:"base_url"`
	WebHost        string `toml:"web_host"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Resolver contains configuration for share-link image resolution.
type Resolver struct {
	// BaseURL is the resolution service root; requests go to BaseURL + "/resolve-image".
	BaseURL        string   `toml:"base_url"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Domains        []string `toml:"domains"`
	ResolveOnView  bool     `toml:"resolve_on_view"`
	UserAgent      string   `toml:"user_agent"`
}

// Cache contains configuration for the short-lived lookup caches.
type Cache struct {
	TTLSeconds int `toml:"ttl_seconds"` // 0 disables caching
	MaxEntries int `toml:"max_entries"`
}

// Storage contains configuration for uploaded image storage.
type Storage struct {
	PublicBaseURL string `toml:"public_base_url"`
	MaxUploadMiB  int    `toml:"max_upload_mib"`
}

// View contains presentation fallbacks used when assembling listings.
type View struct {
	IconPlaceholder       string `toml:"icon_placeholder"`
	ScreenshotPlaceholder string `toml:"screenshot_placeholder"`
	// DuplicatePolicy is "keep" or "prefer_live".
	DuplicatePolicy string `toml:"duplicate_policy"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the storefront.
//
// Configuration sections by subsystem:
//   - Paths: data/log/upload directories, seed file, and API bind address
//   - GitHub: live release lookups
//   - Resolver: share-link image resolution
//   - Cache: TTL caches in front of GitHub and the resolver
//   - Storage: uploaded image storage
//   - View: placeholders and timeline duplicate handling
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	GitHub   GitHub   `toml:"github"`
	Resolver Resolver `toml:"resolver"`
	Cache    Cache    `toml:"cache"`
	Storage  Storage  `toml:"storage"`
	View     View     `toml:"view"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("storefront.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.UploadDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the catalog database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "storefrontd.lock")
}

// GitHubTimeout returns the per-call timeout for release lookups.
func (c *Config) GitHubTimeout() time.Duration {
	return time.Duration(c.GitHub.TimeoutSeconds) * time.Second
}

// ResolverTimeout returns the per-call timeout for asset resolution.
func (c *Config) ResolverTimeout() time.Duration {
	return time.Duration(c.Resolver.TimeoutSeconds) * time.Second
}

// CacheTTL returns the lookup cache lifetime; zero means caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// MaxUploadBytes returns the upload size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMiB) * 1024 * 1024
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
