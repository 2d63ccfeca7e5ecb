package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v39/github"
	"golang.org/x/oauth2"

	"storefront/internal/logging"
)

// GitHubClient implements Client against the GitHub REST API.
type GitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

var _ Client = (*GitHubClient)(nil)

// GitHubOption configures a GitHubClient.
type GitHubOption func(*githubOptions)

type githubOptions struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithToken authenticates requests with a personal access token.
func WithToken(token string) GitHubOption {
	return func(o *githubOptions) {
		o.token = strings.TrimSpace(token)
	}
}

// WithBaseURL points the client at a different API root (GitHub Enterprise, tests).
func WithBaseURL(baseURL string) GitHubOption {
	return func(o *githubOptions) {
		o.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient overrides the HTTP client. With a token, its transport is
// wrapped and its timeout kept.
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(o *githubOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithLogger sets the logger used for lookup failures.
func WithLogger(logger *slog.Logger) GitHubOption {
	return func(o *githubOptions) {
		o.logger = logger
	}
}

// NewGitHubClient constructs a client. A token switches the transport to an
// oauth2 static token source.
func NewGitHubClient(opts ...GitHubOption) (*GitHubClient, error) {
	o := githubOptions{httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if o.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token})
		httpClient = &http.Client{
			Transport:     &oauth2.Transport{Base: o.httpClient.Transport, Source: ts},
			CheckRedirect: o.httpClient.CheckRedirect,
			Jar:           o.httpClient.Jar,
			Timeout:       o.httpClient.Timeout,
		}
	}

	client := github.NewClient(httpClient)
	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("github base url %q must be absolute", o.baseURL)
		}
		client.BaseURL = parsed
	}

	return &GitHubClient{
		client: client,
		logger: logging.NewComponentLogger(o.logger, "release"),
	}, nil
}

// FetchRepository implements Client.
func (c *GitHubClient) FetchRepository(ctx context.Context, ref Ref) *RepoMeta {
	if !validRef(ref) {
		return nil
	}
	start := time.Now()
	repo, _, err := c.client.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		c.logFailure(ctx, "repository", ref, time.Since(start), err)
		return nil
	}
	return &RepoMeta{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		HTMLURL:       repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
		StarCount:     repo.GetStargazersCount(),
		OwnerName:     repo.GetOwner().GetLogin(),
		Archived:      repo.GetArchived(),
		Topics:        repo.Topics,
	}
}

// FetchLatestRelease implements Client. The first release asset is the
// primary asset.
func (c *GitHubClient) FetchLatestRelease(ctx context.Context, ref Ref) *Snapshot {
	if !validRef(ref) {
		return nil
	}
	start := time.Now()
	rel, _, err := c.client.Repositories.GetLatestRelease(ctx, ref.Owner, ref.Repo)
	if err != nil {
		c.logFailure(ctx, "latest_release", ref, time.Since(start), err)
		return nil
	}
	tag := strings.TrimSpace(rel.GetTagName())
	if tag == "" {
		return nil
	}
	snap := &Snapshot{TagName: tag}
	if rel.PublishedAt != nil {
		published := rel.PublishedAt.Time.UTC()
		snap.PublishedAt = &published
	}
	if len(rel.Assets) > 0 {
		asset := rel.Assets[0]
		if asset.Size != nil {
			size := int64(asset.GetSize())
			snap.PrimaryAssetSizeBytes = &size
		}
		if download := asset.GetBrowserDownloadURL(); download != "" {
			snap.PrimaryAssetDownloadURL = &download
		}
	}
	return snap
}

// FetchReadme implements Client. An empty readme is returned as "".
func (c *GitHubClient) FetchReadme(ctx context.Context, ref Ref) *string {
	if !validRef(ref) {
		return nil
	}
	start := time.Now()
	content, _, err := c.client.Repositories.GetReadme(ctx, ref.Owner, ref.Repo, nil)
	if err != nil {
		c.logFailure(ctx, "readme", ref, time.Since(start), err)
		return nil
	}
	text, err := content.GetContent()
	if err != nil {
		c.logFailure(ctx, "readme", ref, time.Since(start), fmt.Errorf("decode readme: %w", err))
		return nil
	}
	return &text
}

func (c *GitHubClient) logFailure(ctx context.Context, lookup string, ref Ref, latency time.Duration, err error) {
	logger := logging.WithContext(ctx, c.logger)
	attrs := []logging.Attr{
		logging.String("lookup", lookup),
		logging.String(logging.FieldRepository, ref.String()),
		logging.Duration("latency", latency),
		logging.Error(err),
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		logger.Debug("release lookup found nothing", logging.Args(attrs...)...)
		return
	}
	if errors.Is(err, context.Canceled) {
		logger.Debug("release lookup abandoned", logging.Args(attrs...)...)
		return
	}
	logging.WarnWithContext(logger, "release lookup failed", "release_lookup_failed",
		append(attrs,
			logging.String(logging.FieldErrorHint, "check network access and github.token rate limits"),
			logging.String(logging.FieldImpact, "listing shows manually curated release data"))...)
}

func validRef(ref Ref) bool {
	return validName(ref.Owner) && validName(ref.Repo)
}
