package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"storefront/internal/api"
	"storefront/internal/assets"
	"storefront/internal/catalog"
	"storefront/internal/testsupport"
)

func TestNewServicesCachesResolutions(t *testing.T) {
	var calls atomic.Int32
	resolverSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"imageUrl":"https://i.pinimg.com/cached.jpg"}`))
	}))
	t.Cleanup(resolverSrv.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithResolverBaseURL(resolverSrv.URL),
		testsupport.WithCacheTTL(60))
	store := testsupport.MustOpenStore(t, cfg)

	svcs, err := api.NewServices(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}
	for range 3 {
		res := svcs.Resolver.Resolve(context.Background(), "https://pin.it/cached")
		if res.Status != assets.StatusResolved {
			t.Fatalf("unexpected result %+v", res)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one service call, got %d", n)
	}
}

func TestNewServicesDetailWithUnreachableUpstreams(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithGitHubBaseURL("http://127.0.0.1:1"),
		testsupport.WithResolverBaseURL("http://127.0.0.1:1"))
	store := testsupport.MustOpenStore(t, cfg)
	rec := testsupport.NewListing(t, store, "Notes", func(r *catalog.Record) {
		r.SourceRepositoryURL = testsupport.Ptr("https://github.com/acme/notes")
		r.IconURL = "https://pin.it/icon"
	})

	svcs, err := api.NewServices(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}
	got, err := svcs.Listings.Detail(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if got.Version != "1.0.0" || got.Live {
		t.Fatalf("expected manual fallback, got %+v", got)
	}
	if got.IconURL != "https://pin.it/icon" {
		t.Fatalf("expected stored icon when resolution fails, got %q", got.IconURL)
	}
}
