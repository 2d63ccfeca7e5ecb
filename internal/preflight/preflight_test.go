package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass for tiny minimum, got: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed || !strings.Contains(result.Detail, "need") {
		t.Fatalf("expected failure for huge minimum, got %+v", result)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckGitHub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "", "Bearer good":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	if result := CheckGitHub(context.Background(), srv.URL, ""); !result.Passed || !strings.Contains(result.Detail, "anonymous") {
		t.Fatalf("expected anonymous pass, got %+v", result)
	}
	if result := CheckGitHub(context.Background(), srv.URL, "good"); !result.Passed {
		t.Fatalf("expected pass with token, got %+v", result)
	}
	if result := CheckGitHub(context.Background(), srv.URL, "bad"); result.Passed {
		t.Fatal("expected failure for bad token")
	}
	if result := CheckGitHub(context.Background(), "", ""); result.Passed {
		t.Fatal("expected failure for missing base url")
	}
}

func TestCheckResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	if result := CheckResolver(context.Background(), srv.URL+"/"); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result := CheckResolver(context.Background(), ""); !result.Passed || result.Detail != "Disabled" {
		t.Fatalf("expected disabled pass, got %+v", result)
	}

	url := srv.URL
	srv.Close()
	if result := CheckResolver(context.Background(), url); result.Passed || !strings.HasPrefix(result.Detail, "unreachable") {
		t.Fatalf("expected unreachable failure, got %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_HealthyConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t,
		testsupport.WithGitHubBaseURL(srv.URL),
		testsupport.WithResolverBaseURL(srv.URL),
	)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Failed(results) {
		t.Fatal("expected no failures")
	}
}

func TestFailedDetectsAnyFailure(t *testing.T) {
	results := []Result{{Name: "a", Passed: true}, {Name: "b"}}
	if !Failed(results) {
		t.Fatal("expected failure reported")
	}
}
