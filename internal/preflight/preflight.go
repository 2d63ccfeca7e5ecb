package preflight

import (
	"context"

	"storefront/internal/config"
)

const minFreeUploadBytes = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Upload directory", cfg.Paths.UploadDir),
		CheckFreeSpace("Upload free space", cfg.Paths.UploadDir, max(cfg.MaxUploadBytes()*4, minFreeUploadBytes)),
		CheckGitHub(ctx, cfg.GitHub.BaseURL, cfg.GitHub.Token),
		CheckResolver(ctx, cfg.Resolver.BaseURL),
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
