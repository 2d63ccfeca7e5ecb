package ogimage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"storefront/internal/logging"
)

const (
	defaultMaxPageBytes = 2 << 20
	defaultUserAgent    = "Mozilla/5.0 (compatible; StorefrontBot/1.0)"
	maxRedirects        = 10
)

// ErrRedirectBlocked reports a redirect to a host the extractor may not fetch.
var ErrRedirectBlocked = errors.New("redirect to disallowed host")

// Extractor fetches share pages and extracts their image URL.
type Extractor struct {
	httpClient   *http.Client
	userAgent    string
	maxPageBytes int64
	allowHost    func(host string) bool
	logger       *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithUserAgent overrides the User-Agent sent to share pages.
func WithUserAgent(userAgent string) Option {
	return func(e *Extractor) {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			e.userAgent = ua
		}
	}
}

// WithAllowedHosts restricts every redirect hop to hosts accepted by allow.
func WithAllowedHosts(allow func(host string) bool) Option {
	return func(e *Extractor) {
		e.allowHost = allow
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logging.NewComponentLogger(logger, "ogimage")
	}
}

// NewExtractor constructs an Extractor with a 10s HTTP timeout.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		userAgent:    defaultUserAgent,
		maxPageBytes: defaultMaxPageBytes,
		logger:       logging.NewComponentLogger(nil, "ogimage"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.allowHost != nil {
		client := *e.httpClient
		client.CheckRedirect = e.checkRedirect
		e.httpClient = &client
	}
	return e
}

func (e *Extractor) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrRedirectBlocked, req.URL.Scheme)
	}
	if !e.allowHost(req.URL.Hostname()) {
		return fmt.Errorf("%w: %s", ErrRedirectBlocked, req.URL.Hostname())
	}
	return nil
}

// Extract fetches pageURL and returns the direct image URL it advertises.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,image/*;q=0.8")

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("fetch page (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %d (latency=%v)", resp.StatusCode, latency)
	}

	finalURL := resp.Request.URL
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "image/") {
		return finalURL.String(), nil
	}

	image, err := FromHTML(io.LimitReader(resp.Body, e.maxPageBytes), finalURL)
	if err != nil {
		return "", err
	}
	e.logger.Debug("share page image extracted",
		logging.String("page_url", pageURL),
		logging.String("image_url", image),
		logging.Duration("latency", latency))
	return image, nil
}
