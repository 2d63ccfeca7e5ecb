package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

type cliOptions struct {
	githubURL   string
	resolverURL string
	apiToken    string
}

func setupCLITestEnv(t *testing.T, opts cliOptions) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("STOREFRONT_API_TOKEN", "")
	t.Setenv("STOREFRONT_RESOLVER_URL", "")

	if opts.githubURL == "" {
		opts.githubURL = "http://127.0.0.1:1/"
	}
	if opts.resolverURL == "" {
		opts.resolverURL = "http://127.0.0.1:1"
	}

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
upload_dir = %q
api_bind = "127.0.0.1:0"
api_token = %q

[github]
base_url = %q
timeout_seconds = 2

[resolver]
base_url = %q
timeout_seconds = 2
domains = ["pin.it", "127.0.0.1"]

[cache]
ttl_seconds = 0
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "uploads"),
		opts.apiToken,
		opts.githubURL,
		opts.resolverURL,
	)
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (e *cliTestEnv) writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}
