package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"storefront/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokensAndExpandsPaths(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "gh-test")
	t.Setenv("STOREFRONT_API_TOKEN", "admin-test")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantUploads := filepath.Join(tempHome, ".local", "share", "storefront", "uploads")
	if cfg.Paths.UploadDir != wantUploads {
		t.Fatalf("unexpected upload dir: got %q want %q", cfg.Paths.UploadDir, wantUploads)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7490" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.GitHub.Token != "gh-test" {
		t.Fatalf("expected GitHub token from env, got %q", cfg.GitHub.Token)
	}
	if cfg.Paths.APIToken != "admin-test" {
		t.Fatalf("expected API token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.GitHubTimeout().Seconds() != 5 {
		t.Fatalf("expected 5s GitHub timeout, got %v", cfg.GitHubTimeout())
	}
	if len(cfg.Resolver.Domains) != len(config.DefaultResolverDomains) {
		t.Fatalf("expected default resolver domains, got %v", cfg.Resolver.Domains)
	}
	if cfg.View.DuplicatePolicy != config.DuplicateKeep {
		t.Fatalf("expected keep duplicate policy, got %q", cfg.View.DuplicatePolicy)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "catalog.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GITHUB_TOKEN", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Paths struct {
			UploadDir string `toml:"upload_dir"`
			SeedFile  string `toml:"seed_file"`
		} `toml:"paths"`
		GitHub struct {
			Token          string `toml:"token"`
			BaseURL        string `toml:"base_url"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
		} `toml:"github"`
		Resolver struct {
			BaseURL string   `toml:"base_url"`
			Domains []string `toml:"domains"`
		} `toml:"resolver"`
		View struct {
			DuplicatePolicy string `toml:"duplicate_policy"`
		} `toml:"view"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}{}
	payload.Paths.UploadDir = "~/images"
	payload.Paths.SeedFile = "~/catalog.yaml"
	payload.GitHub.Token = " file-token "
	payload.GitHub.BaseURL = "https://ghe.example.com/api/v3"
	payload.GitHub.TimeoutSeconds = 9
	payload.Resolver.BaseURL = "https://resolve.example.com/"
	payload.Resolver.Domains = []string{" Imgur.com ", "imgur.com", "", "*.example.org"}
	payload.View.DuplicatePolicy = "PREFER_LIVE"
	payload.Logging.Format = "JSON"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.UploadDir != filepath.Join(tempHome, "images") {
		t.Fatalf("unexpected upload dir: %q", cfg.Paths.UploadDir)
	}
	if cfg.Paths.SeedFile != filepath.Join(tempHome, "catalog.yaml") {
		t.Fatalf("unexpected seed file: %q", cfg.Paths.SeedFile)
	}
	if cfg.GitHub.Token != "file-token" {
		t.Fatalf("expected trimmed file token, got %q", cfg.GitHub.Token)
	}
	if cfg.GitHub.BaseURL != "https://ghe.example.com/api/v3/" {
		t.Fatalf("expected trailing slash on base url, got %q", cfg.GitHub.BaseURL)
	}
	if cfg.GitHub.TimeoutSeconds != 9 {
		t.Fatalf("unexpected timeout: %d", cfg.GitHub.TimeoutSeconds)
	}
	if cfg.Resolver.BaseURL != "https://resolve.example.com" {
		t.Fatalf("expected trimmed resolver url, got %q", cfg.Resolver.BaseURL)
	}
	if got := strings.Join(cfg.Resolver.Domains, ","); got != "imgur.com,*.example.org" {
		t.Fatalf("unexpected resolver domains: %q", got)
	}
	if cfg.View.DuplicatePolicy != config.DuplicatePreferLive {
		t.Fatalf("unexpected duplicate policy: %q", cfg.View.DuplicatePolicy)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestResolverURLEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOREFRONT_RESOLVER_URL", "http://resolver.internal:9000/")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[resolver]\nbase_url = \"https://file.example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Resolver.BaseURL != "http://resolver.internal:9000" {
		t.Fatalf("expected env resolver url, got %q", cfg.Resolver.BaseURL)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "duplicate policy",
			mutate: func(c *config.Config) { c.View.DuplicatePolicy = "merge" },
			want:   "view.duplicate_policy",
		},
		{
			name:   "resolver scheme",
			mutate: func(c *config.Config) { c.Resolver.BaseURL = "ftp://example.com" },
			want:   "resolver.base_url",
		},
		{
			name:   "resolver domain with path",
			mutate: func(c *config.Config) { c.Resolver.Domains = []string{"imgur.com/a"} },
			want:   "resolver.domains",
		},
		{
			name:   "github base url",
			mutate: func(c *config.Config) { c.GitHub.BaseURL = "not a url" },
			want:   "github.base_url",
		},
		{
			name:   "cache entries",
			mutate: func(c *config.Config) { c.Cache.MaxEntries = 0 },
			want:   "cache.max_entries",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEmptyResolverURLDisablesResolution(t *testing.T) {
	cfg := config.Default()
	cfg.Resolver.BaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected empty resolver url to be valid, got %v", err)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.UploadDir = filepath.Join(base, "uploads")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.UploadDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", dir)
		}
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("STOREFRONT_API_TOKEN", "")
	t.Setenv("STOREFRONT_RESOLVER_URL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[resolver]") {
		t.Fatalf("sample config missing resolver section")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Fatalf("unexpected sample cache ttl: %d", cfg.Cache.TTLSeconds)
	}
}
