package ogimage_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/assets/ogimage"
)

func TestFromHTMLPrefersOpenGraph(t *testing.T) {
	base, _ := url.Parse("https://www.pinterest.com/pin/1/")
	doc := `<html><head>
<link rel="image_src" href="/fallback.jpg">
<meta name="twitter:image" content="https://i.pinimg.com/tw.jpg">
<meta property="og:image" content="https://i.pinimg.com/og.jpg">
</head><body><img src="/ignored.png"></body></html>`

	got, err := ogimage.FromHTML(strings.NewReader(doc), base)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if got != "https://i.pinimg.com/og.jpg" {
		t.Fatalf("unexpected image %q", got)
	}
}

func TestFromHTMLResolvesRelativeLinks(t *testing.T) {
	base, _ := url.Parse("https://postimg.cc/abc")
	doc := `<html><head><link rel="shortcut image_src" href="/images/full.png"></head></html>`

	got, err := ogimage.FromHTML(strings.NewReader(doc), base)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if got != "https://postimg.cc/images/full.png" {
		t.Fatalf("unexpected image %q", got)
	}
}

func TestFromHTMLWithoutImage(t *testing.T) {
	_, err := ogimage.FromHTML(strings.NewReader(`<html><head><title>x</title></head><body></body></html>`), nil)
	if !errors.Is(err, ogimage.ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestExtractFollowsRedirectsAndParsesPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pin/99", http.StatusFound)
	})
	mux.HandleFunc("/pin/99", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent header")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<meta property="og:image" content="/media/big.jpg">`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got, err := ogimage.NewExtractor().Extract(context.Background(), srv.URL+"/short")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != srv.URL+"/media/big.jpg" {
		t.Fatalf("unexpected image %q", got)
	}
}

func TestExtractReturnsDirectImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	got, err := ogimage.NewExtractor().Extract(context.Background(), srv.URL+"/raw.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != srv.URL+"/raw.png" {
		t.Fatalf("expected page url returned, got %q", got)
	}
}

func TestExtractReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := ogimage.NewExtractor().Extract(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 page")
	}
}

func TestExtractBlocksRedirectsToDisallowedHosts(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("disallowed host was fetched: %s", r.URL)
	}))
	defer other.Close()
	target := strings.Replace(other.URL, "127.0.0.1", "localhost", 1) + "/internal"

	mux := http.NewServeMux()
	mux.HandleFunc("/away", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pin/7", http.StatusFound)
	})
	mux.HandleFunc("/pin/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<meta property="og:image" content="/media/7.jpg">`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	extractor := ogimage.NewExtractor(ogimage.WithAllowedHosts(func(host string) bool {
		return host == "127.0.0.1"
	}))

	if _, err := extractor.Extract(context.Background(), srv.URL+"/away"); !errors.Is(err, ogimage.ErrRedirectBlocked) {
		t.Fatalf("expected ErrRedirectBlocked, got %v", err)
	}
	got, err := extractor.Extract(context.Background(), srv.URL+"/hop")
	if err != nil {
		t.Fatalf("Extract same-host redirect: %v", err)
	}
	if got != srv.URL+"/media/7.jpg" {
		t.Fatalf("unexpected image %q", got)
	}
}
