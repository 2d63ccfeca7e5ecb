package assets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/assets"
	"storefront/internal/config"
)

type resolveServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newResolveServer(t *testing.T, handler http.HandlerFunc) *resolveServer {
	t.Helper()
	rs := &resolveServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.calls.Add(1)
		if r.URL.Path != "/resolve-image" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		handler(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func newResolver(t *testing.T, baseURL string, opts ...assets.Option) *assets.HTTPResolver {
	t.Helper()
	r, err := assets.NewHTTPResolver(baseURL, config.DefaultResolverDomains, opts...)
	if err != nil {
		t.Fatalf("NewHTTPResolver: %v", err)
	}
	return r
}

func TestWhitelistMatching(t *testing.T) {
	w := assets.NewWhitelist(config.DefaultResolverDomains)
	cases := map[string]bool{
		"pinterest.com":     true,
		"www.pinterest.com": true,
		"uk.pinterest.com":  true,
		"PIN.IT":            true,
		"imgur.com":         true,
		"i.imgur.com":       false,
		"ibb.co":            true,
		"i.ibb.co":          false,
		"postimg.cc":        true,
		"notpinterest.com":  false,
		"example.com":       false,
		"":                  false,
	}
	for host, want := range cases {
		if got := w.Matches(host); got != want {
			t.Fatalf("Matches(%q) = %v, want %v", host, got, want)
		}
	}
}

func TestResolveSkipsNonURLWithoutCallingService(t *testing.T) {
	srv := newResolveServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"imageUrl":"https://i.pinimg.com/x.jpg"}`))
	})
	r := newResolver(t, srv.URL)

	for _, input := range []string{"not-a-url", "", "ftp://pin.it/abc", "/relative/path.png", "pin.it/abc"} {
		res := r.Resolve(context.Background(), input)
		if res.Status != assets.StatusSkipped {
			t.Fatalf("Resolve(%q) status = %s, want skipped", input, res.Status)
		}
		if res.SourceURL != input || res.ResolvedURL != nil {
			t.Fatalf("expected input returned unresolved, got %+v", res)
		}
		if res.URL() != input {
			t.Fatalf("expected URL() to fall back to input, got %q", res.URL())
		}
	}
	if n := srv.calls.Load(); n != 0 {
		t.Fatalf("expected zero service calls, got %d", n)
	}
}

func TestResolvePassesThroughNonWhitelistedHosts(t *testing.T) {
	srv := newResolveServer(t, func(w http.ResponseWriter, r *http.Request) {})
	r := newResolver(t, srv.URL)

	res := r.Resolve(context.Background(), "https://i.imgur.com/direct.png")
	if res.Status != assets.StatusDirect || res.ResolvedURL != nil {
		t.Fatalf("expected direct passthrough, got %+v", res)
	}
	if srv.calls.Load() != 0 {
		t.Fatal("expected non-whitelisted URL never sent")
	}
}

func TestResolveSuccessIsIdempotent(t *testing.T) {
	var gotURL atomic.Value
	srv := newResolveServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"imageUrl":"https://i.pinimg.com/originals/ab/cd.jpg"}`))
	})
	r := newResolver(t, srv.URL, assets.WithUserAgent("Storefront/test"))

	share := "https://www.pinterest.com/pin/12345/?utm=a&b=c"
	first := r.Resolve(context.Background(), share)
	second := r.Resolve(context.Background(), share)

	if first.Status != assets.StatusResolved || first.ResolvedURL == nil {
		t.Fatalf("expected resolved result, got %+v", first)
	}
	if *first.ResolvedURL != "https://i.pinimg.com/originals/ab/cd.jpg" {
		t.Fatalf("unexpected resolved url %q", *first.ResolvedURL)
	}
	if second.ResolvedURL == nil || *second.ResolvedURL != *first.ResolvedURL {
		t.Fatalf("expected identical resolution, got %+v", second)
	}
	if gotURL.Load() != share {
		t.Fatalf("expected share url forwarded intact, got %v", gotURL.Load())
	}
	if first.ResolvedAt.IsZero() {
		t.Fatal("expected resolution timestamp")
	}
}

func TestResolveFailureModes(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		message string
	}{
		{
			name: "error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error":"No image found on page"}`))
			},
			message: "No image found on page",
		},
		{
			name: "non-2xx with error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`{"error":"upstream refused"}`))
			},
			message: "upstream refused",
		},
		{
			name: "non-2xx without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			message: "resolution service returned 500",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			message: "resolution service returned an unreadable response",
		},
		{
			name: "empty image url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"imageUrl":""}`))
			},
			message: "resolution service returned no image url",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newResolveServer(t, tc.handler)
			r := newResolver(t, srv.URL)
			res := r.Resolve(context.Background(), "https://pin.it/abc123")
			if res.Status != assets.StatusFailed {
				t.Fatalf("expected failed status, got %+v", res)
			}
			if res.ResolvedURL != nil {
				t.Fatalf("expected no resolved url, got %q", *res.ResolvedURL)
			}
			if res.Message != tc.message {
				t.Fatalf("unexpected message %q, want %q", res.Message, tc.message)
			}
			if res.URL() != "https://pin.it/abc123" {
				t.Fatalf("expected fallback to source, got %q", res.URL())
			}
		})
	}
}

func TestResolveTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := newResolveServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	r := newResolver(t, srv.URL, assets.WithTimeout(50*time.Millisecond))

	start := time.Now()
	res := r.Resolve(context.Background(), "https://imgur.com/gallery/xyz")
	if res.Status != assets.StatusFailed {
		t.Fatalf("expected failure on timeout, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
}

func TestResolveDisabledWithoutBaseURL(t *testing.T) {
	r := newResolver(t, "")
	res := r.Resolve(context.Background(), "https://pin.it/abc")
	if res.Status != assets.StatusDirect || res.ResolvedURL != nil || !res.Disabled {
		t.Fatalf("expected passthrough when disabled, got %+v", res)
	}
	if other := r.Resolve(context.Background(), "https://cdn.example.com/a.png"); other.Disabled {
		t.Fatalf("expected non-whitelisted link not marked disabled, got %+v", other)
	}
}

func TestNewHTTPResolverRejectsBadBaseURL(t *testing.T) {
	if _, err := assets.NewHTTPResolver("resolver.local", nil); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

type countingResolver struct {
	calls  atomic.Int32
	result func(string) assets.Resolved
}

func (c *countingResolver) Resolve(_ context.Context, shareURL string) assets.Resolved {
	c.calls.Add(1)
	return c.result(shareURL)
}

func TestCachedResolverCachesOnlySuccesses(t *testing.T) {
	ok := "https://i.pinimg.com/ok.jpg"
	inner := &countingResolver{result: func(in string) assets.Resolved {
		if in == "https://pin.it/good" {
			return assets.Resolved{SourceURL: in, ResolvedURL: &ok, Status: assets.StatusResolved}
		}
		return assets.Resolved{SourceURL: in, Status: assets.StatusFailed, Message: "nope"}
	}}
	cached := assets.NewCachedResolver(inner, time.Minute, 16)
	ctx := context.Background()

	for range 3 {
		if res := cached.Resolve(ctx, "https://pin.it/good"); res.URL() != ok {
			t.Fatalf("unexpected cached result %+v", res)
		}
	}
	for range 2 {
		if res := cached.Resolve(ctx, "https://pin.it/bad"); res.Status != assets.StatusFailed {
			t.Fatalf("unexpected failure result %+v", res)
		}
	}
	if n := inner.calls.Load(); n != 3 {
		t.Fatalf("expected 1 success load + 2 failure loads, got %d", n)
	}
}
