package release_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/release"
)

type countingClient struct {
	repoCalls    atomic.Int32
	releaseCalls atomic.Int32
	readmeCalls  atomic.Int32
	fail         atomic.Bool
}

func (c *countingClient) FetchRepository(_ context.Context, ref release.Ref) *release.RepoMeta {
	c.repoCalls.Add(1)
	if c.fail.Load() {
		return nil
	}
	return &release.RepoMeta{FullName: ref.String(), StarCount: 7}
}

func (c *countingClient) FetchLatestRelease(_ context.Context, _ release.Ref) *release.Snapshot {
	c.releaseCalls.Add(1)
	if c.fail.Load() {
		return nil
	}
	return &release.Snapshot{TagName: "v1.0.0"}
}

func (c *countingClient) FetchReadme(_ context.Context, _ release.Ref) *string {
	c.readmeCalls.Add(1)
	if c.fail.Load() {
		return nil
	}
	readme := ""
	return &readme
}

func TestCachedClientReusesSuccessfulLookups(t *testing.T) {
	inner := &countingClient{}
	client := release.NewCachedClient(inner, time.Minute, 16)
	ctx := context.Background()

	for range 3 {
		if client.FetchRepository(ctx, refFor("Acme", "Notes")) == nil {
			t.Fatal("expected repository")
		}
		if client.FetchLatestRelease(ctx, refFor("acme", "notes")) == nil {
			t.Fatal("expected release")
		}
		if readme := client.FetchReadme(ctx, refFor("acme", "notes")); readme == nil || *readme != "" {
			t.Fatalf("expected empty readme present, got %v", readme)
		}
	}
	if inner.repoCalls.Load() != 1 || inner.releaseCalls.Load() != 1 || inner.readmeCalls.Load() != 1 {
		t.Fatalf("expected one call per lookup, got %d/%d/%d",
			inner.repoCalls.Load(), inner.releaseCalls.Load(), inner.readmeCalls.Load())
	}
}

func TestCachedClientDoesNotCacheFailures(t *testing.T) {
	inner := &countingClient{}
	inner.fail.Store(true)
	client := release.NewCachedClient(inner, time.Minute, 16)
	ctx := context.Background()

	if client.FetchLatestRelease(ctx, refFor("acme", "notes")) != nil {
		t.Fatal("expected nil while failing")
	}
	inner.fail.Store(false)
	if client.FetchLatestRelease(ctx, refFor("acme", "notes")) == nil {
		t.Fatal("expected release after recovery")
	}
	if n := inner.releaseCalls.Load(); n != 2 {
		t.Fatalf("expected failure to be retried, got %d calls", n)
	}
}

func TestCachedClientReturnsIndependentSnapshots(t *testing.T) {
	client := release.NewCachedClient(&countingClient{}, time.Minute, 16)
	ctx := context.Background()

	first := client.FetchLatestRelease(ctx, refFor("acme", "notes"))
	stars := 99
	first.StarCount = &stars

	second := client.FetchLatestRelease(ctx, refFor("acme", "notes"))
	if second.StarCount != nil {
		t.Fatal("expected cached snapshot unaffected by caller mutation")
	}
}
