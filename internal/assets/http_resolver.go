package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/logging"
)

const maxResponseBytes = 64 * 1024

// HTTPResolver resolves whitelisted links through a remote resolution service.
type HTTPResolver struct {
	baseURL    string
	whitelist  Whitelist
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ Resolver = (*HTTPResolver)(nil)

// Option configures an HTTPResolver.
type Option func(*HTTPResolver)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *HTTPResolver) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithLogger sets the logger used for failed resolutions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *HTTPResolver) {
		r.logger = logging.NewComponentLogger(logger, "assets")
	}
}

// WithTimeout bounds each resolution call.
func WithTimeout(timeout time.Duration) Option {
	return func(r *HTTPResolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent to the service.
func WithUserAgent(userAgent string) Option {
	return func(r *HTTPResolver) {
		r.userAgent = strings.TrimSpace(userAgent)
	}
}

// WithClock overrides the ResolvedAt time source.
func WithClock(now func() time.Time) Option {
	return func(r *HTTPResolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewHTTPResolver creates a resolver for the service rooted at baseURL.
// An empty baseURL disables resolution: whitelisted links pass through
// with StatusDirect.
func NewHTTPResolver(baseURL string, domains []string, opts ...Option) (*HTTPResolver, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL != "" {
		if _, ok := parseAbsolute(baseURL); !ok {
			return nil, fmt.Errorf("resolver base url %q must be an absolute http(s) URL", baseURL)
		}
	}
	r := &HTTPResolver{
		baseURL:    baseURL,
		whitelist:  NewWhitelist(domains),
		timeout:    5 * time.Second,
		httpClient: &http.Client{},
		logger:     logging.NewComponentLogger(nil, "assets"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NeedsResolution reports whether raw would be sent to the service.
func (r *HTTPResolver) NeedsResolution(raw string) bool {
	parsed, ok := parseAbsolute(raw)
	return ok && r.whitelist.Matches(parsed.Hostname())
}

type resolvePayload struct {
	ImageURL string `json:"imageUrl"`
	Error    string `json:"error"`
}

// Resolve implements Resolver.
func (r *HTTPResolver) Resolve(ctx context.Context, shareURL string) Resolved {
	result := Resolved{SourceURL: shareURL, ResolvedAt: r.now().UTC()}

	parsed, ok := parseAbsolute(shareURL)
	if !ok {
		result.Status = StatusSkipped
		return result
	}
	if !r.whitelist.Matches(parsed.Hostname()) {
		result.Status = StatusDirect
		return result
	}
	if r.baseURL == "" {
		result.Status = StatusDirect
		result.Message = "image resolution is disabled"
		result.Disabled = true
		return result
	}

	imageURL, message := r.call(ctx, strings.TrimSpace(shareURL))
	result.ResolvedAt = r.now().UTC()
	if message != "" {
		result.Status = StatusFailed
		result.Message = message
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "asset resolution failed", "asset_resolve_failed",
			logging.String("source_url", shareURL),
			logging.String("reason", message),
			logging.String(logging.FieldErrorHint, "check the link or upload the image directly"),
			logging.String(logging.FieldImpact, "stored image link left unchanged"))
		return result
	}
	result.Status = StatusResolved
	result.ResolvedURL = &imageURL
	return result
}

// call performs one request and returns either the image URL or a
// non-empty failure message.
func (r *HTTPResolver) call(ctx context.Context, shareURL string) (string, string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := r.baseURL + "/resolve-image?url=" + url.QueryEscape(shareURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Sprintf("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Sprintf("resolution service timed out after %v", latency.Round(time.Millisecond))
		}
		return "", "resolution service unreachable"
	}
	defer resp.Body.Close()

	var payload resolvePayload
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && strings.TrimSpace(payload.Error) != "" {
			return "", strings.TrimSpace(payload.Error)
		}
		return "", fmt.Sprintf("resolution service returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", "resolution service returned an unreadable response"
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return "", msg
	}
	imageURL := strings.TrimSpace(payload.ImageURL)
	if !IsAbsoluteURL(imageURL) {
		return "", "resolution service returned no image url"
	}
	return imageURL, ""
}
