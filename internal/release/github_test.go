package release_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/release"
)

type githubServer struct {
	*httptest.Server
	calls   atomic.Int32
	authHdr atomic.Value
}

func newGitHubServer(t *testing.T, routes map[string]http.HandlerFunc) *githubServer {
	t.Helper()
	gs := &githubServer{}
	gs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gs.calls.Add(1)
		gs.authHdr.Store(r.Header.Get("Authorization"))
		handler, ok := routes[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(gs.Close)
	return gs
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func fullRoutes() map[string]http.HandlerFunc {
	readme := base64.StdEncoding.EncodeToString([]byte("# Notes\n\nA tiny notes app."))
	return map[string]http.HandlerFunc{
		"/repos/acme/notes": jsonBody(`{
			"full_name": "acme/notes",
			"description": "Notes app",
			"html_url": "https://github.com/acme/notes",
			"default_branch": "main",
			"stargazers_count": 1234,
			"archived": false,
			"topics": ["android", "notes"],
			"owner": {"login": "acme-labs"}
		}`),
		"/repos/acme/notes/releases/latest": jsonBody(`{
			"tag_name": "v3.2.0",
			"published_at": "2026-03-01T10:00:00Z",
			"assets": [
				{"name": "notes.apk", "size": 10485760, "browser_download_url": "https://github.com/acme/notes/releases/download/v3.2.0/notes.apk"},
				{"name": "notes.apk.sha256", "size": 64, "browser_download_url": "https://github.com/acme/notes/releases/download/v3.2.0/notes.apk.sha256"}
			]
		}`),
		"/repos/acme/notes/readme": jsonBody(`{"type":"file","encoding":"base64","content":"` + readme + `"}`),
	}
}

func newClient(t *testing.T, baseURL string, opts ...release.GitHubOption) *release.GitHubClient {
	t.Helper()
	opts = append([]release.GitHubOption{release.WithBaseURL(baseURL)}, opts...)
	client, err := release.NewGitHubClient(opts...)
	if err != nil {
		t.Fatalf("NewGitHubClient: %v", err)
	}
	return client
}

func TestGitHubClientFetchesAllThreeLookups(t *testing.T) {
	srv := newGitHubServer(t, fullRoutes())
	client := newClient(t, srv.URL)
	ref := release.Ref{Owner: "acme", Repo: "notes"}
	ctx := context.Background()

	meta := client.FetchRepository(ctx, ref)
	if meta == nil {
		t.Fatal("expected repository metadata")
	}
	if meta.StarCount != 1234 || meta.OwnerName != "acme-labs" || meta.FullName != "acme/notes" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if len(meta.Topics) != 2 {
		t.Fatalf("expected topics, got %v", meta.Topics)
	}

	snap := client.FetchLatestRelease(ctx, ref)
	if snap == nil {
		t.Fatal("expected release snapshot")
	}
	if snap.TagName != "v3.2.0" {
		t.Fatalf("unexpected tag %q", snap.TagName)
	}
	if snap.PrimaryAssetSizeBytes == nil || *snap.PrimaryAssetSizeBytes != 10485760 {
		t.Fatalf("expected first asset size, got %v", snap.PrimaryAssetSizeBytes)
	}
	if snap.PrimaryAssetDownloadURL == nil || !strings.HasSuffix(*snap.PrimaryAssetDownloadURL, "/notes.apk") {
		t.Fatalf("expected first asset download url, got %v", snap.PrimaryAssetDownloadURL)
	}
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if snap.PublishedAt == nil || !snap.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published time %v", snap.PublishedAt)
	}
	if snap.StarCount != nil || snap.OwnerName != nil {
		t.Fatal("expected repository fields left for the orchestrator")
	}

	readme := client.FetchReadme(ctx, ref)
	if readme == nil || !strings.HasPrefix(*readme, "# Notes") {
		t.Fatalf("unexpected readme %v", readme)
	}
}

func TestGitHubClientFailsClosed(t *testing.T) {
	srv := newGitHubServer(t, map[string]http.HandlerFunc{
		"/repos/acme/broken": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
		},
		"/repos/acme/empty/releases/latest": jsonBody(`{"tag_name": "v0.1.0", "assets": []}`),
	})
	client := newClient(t, srv.URL)
	ctx := context.Background()

	missing := release.Ref{Owner: "acme", Repo: "missing"}
	if client.FetchRepository(ctx, missing) != nil {
		t.Fatal("expected nil repository on 404")
	}
	if client.FetchLatestRelease(ctx, missing) != nil {
		t.Fatal("expected nil release on 404")
	}
	if client.FetchReadme(ctx, missing) != nil {
		t.Fatal("expected nil readme on 404")
	}
	if client.FetchRepository(ctx, release.Ref{Owner: "acme", Repo: "broken"}) != nil {
		t.Fatal("expected nil repository on 500")
	}

	snap := client.FetchLatestRelease(ctx, release.Ref{Owner: "acme", Repo: "empty"})
	if snap == nil || snap.TagName != "v0.1.0" {
		t.Fatalf("expected tag-only snapshot, got %+v", snap)
	}
	if snap.PrimaryAssetSizeBytes != nil || snap.PrimaryAssetDownloadURL != nil || snap.PublishedAt != nil {
		t.Fatalf("expected absent asset fields, got %+v", snap)
	}
}

func TestGitHubClientSkipsInvalidRefs(t *testing.T) {
	srv := newGitHubServer(t, fullRoutes())
	client := newClient(t, srv.URL)

	bad := release.Ref{Owner: "", Repo: "notes"}
	if client.FetchRepository(context.Background(), bad) != nil {
		t.Fatal("expected nil for invalid ref")
	}
	if n := srv.calls.Load(); n != 0 {
		t.Fatalf("expected no outbound calls, got %d", n)
	}
}

func TestGitHubClientTimesOut(t *testing.T) {
	unblock := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-unblock:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(unblock) })

	client := newClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if client.FetchLatestRelease(ctx, refFor("acme", "slow")) != nil {
		t.Fatal("expected nil on timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected prompt timeout, took %s", elapsed)
	}
}

func TestGitHubClientKeepsTimeoutWithToken(t *testing.T) {
	unblock := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-unblock:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(unblock) })

	for _, opts := range [][]release.GitHubOption{
		{release.WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond})},
		{release.WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}), release.WithToken("ghp_test")},
	} {
		client := newClient(t, srv.URL, opts...)
		ctx := context.WithoutCancel(context.Background())

		start := time.Now()
		if client.FetchRepository(ctx, refFor("acme", "slow")) != nil {
			t.Fatal("expected nil on client timeout")
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Fatalf("expected client timeout to bound detached lookup, took %s", elapsed)
		}
	}
}

func TestGitHubClientSendsToken(t *testing.T) {
	srv := newGitHubServer(t, fullRoutes())
	client := newClient(t, srv.URL, release.WithToken("ghp_test"))

	if client.FetchRepository(context.Background(), refFor("acme", "notes")) == nil {
		t.Fatal("expected repository metadata")
	}
	if got, _ := srv.authHdr.Load().(string); got != "Bearer ghp_test" {
		t.Fatalf("expected bearer token, got %q", got)
	}
}

func TestNewGitHubClientRejectsRelativeBaseURL(t *testing.T) {
	if _, err := release.NewGitHubClient(release.WithBaseURL("api/v3")); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func refFor(owner, repo string) release.Ref {
	return release.Ref{Owner: owner, Repo: repo}
}
