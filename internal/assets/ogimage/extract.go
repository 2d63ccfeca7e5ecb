package ogimage

import (
	"errors"
	"io"
	"math"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoImage reports a page without any recognised image metadata.
var ErrNoImage = errors.New("no image found on page")

// Lower rank wins.
var metaRank = map[string]int{
	"og:image:secure_url": 0,
	"og:image":            1,
	"og:image:url":        1,
	"twitter:image":       2,
	"twitter:image:src":   2,
}

const linkRank = 3

// FromHTML scans an HTML document and returns the best image candidate
// resolved against base. Scanning stops at <body> once a candidate exists.
func FromHTML(r io.Reader, base *url.URL) (string, error) {
	tokenizer := html.NewTokenizer(r)
	best, bestRank := "", math.MaxInt

	consider := func(raw string, rank int) {
		raw = strings.TrimSpace(raw)
		if raw == "" || rank >= bestRank {
			return
		}
		abs, ok := absolutize(raw, base)
		if !ok {
			return
		}
		best, bestRank = abs, rank
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if best == "" {
				return "", ErrNoImage
			}
			return best, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.DataAtom {
			case atom.Meta:
				key := strings.ToLower(attr(token, "property"))
				if key == "" {
					key = strings.ToLower(attr(token, "name"))
				}
				if rank, ok := metaRank[key]; ok {
					consider(attr(token, "content"), rank)
				}
			case atom.Link:
				if hasToken(attr(token, "rel"), "image_src") {
					consider(attr(token, "href"), linkRank)
				}
			case atom.Body:
				if best != "" {
					return best, nil
				}
			}
		}
		if bestRank == 0 {
			return best, nil
		}
	}
}

func attr(token html.Token, name string) string {
	for _, a := range token.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func hasToken(list, want string) bool {
	for _, field := range strings.Fields(strings.ToLower(list)) {
		if field == want {
			return true
		}
	}
	return false
}

func absolutize(raw string, base *url.URL) (string, bool) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" || ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}
