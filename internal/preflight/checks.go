package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

const reachabilityTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes
// available to unprivileged writers.
func CheckFreeSpace(name, path string, minBytes int64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free on %s", humanize.IBytes(free), path)
	if minBytes > 0 && free < uint64(minBytes) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s)", detail, humanize.IBytes(uint64(minBytes)))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckGitHub verifies the GitHub API root answers and, when a token is
// configured, accepts it.
func CheckGitHub(ctx context.Context, baseURL, token string) Result {
	const name = "GitHub API"

	base := strings.TrimSpace(baseURL)
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if token = strings.TrimSpace(token); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	status, err := probe(ctx, base, headers)
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	switch {
	case status == http.StatusOK:
		if token == "" {
			return Result{Name: name, Passed: true, Detail: "Reachable (anonymous, rate limited)"}
		}
		return Result{Name: name, Passed: true, Detail: "Reachable (token accepted)"}
	case status == http.StatusUnauthorized:
		return Result{Name: name, Detail: "auth failed (invalid token)"}
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return Result{Name: name, Detail: fmt.Sprintf("rate limited (%d)", status)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status (%d)", status)}
	}
}

// CheckResolver verifies the image resolution service answers its health
// endpoint. An empty base URL means resolution is disabled.
func CheckResolver(ctx context.Context, baseURL string) Result {
	const name = "Image resolver"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	status, err := probe(ctx, base+"/healthz", nil)
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	if status != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%d)", status)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

func probe(ctx context.Context, target string, headers map[string]string) (int, error) {
	checkCtx, cancel := context.WithTimeout(ctx, reachabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func summarizeProbeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "unreachable (timed out)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "unreachable (timed out)"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("unreachable (%v)", opErr.Err)
	}
	return fmt.Sprintf("unreachable (%v)", err)
}
