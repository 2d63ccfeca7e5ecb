package assets

import (
	"net/url"
	"strings"
)

// Whitelist matches hosts that require resolution. Entries are exact host
// names or "*.domain" wildcards that match any subdomain of domain.
type Whitelist struct {
	exact    map[string]struct{}
	suffixes []string
}

// NewWhitelist builds a matcher from configured domain entries.
func NewWhitelist(domains []string) Whitelist {
	w := Whitelist{exact: make(map[string]struct{}, len(domains))}
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		switch {
		case domain == "":
		case strings.HasPrefix(domain, "*."):
			w.suffixes = append(w.suffixes, domain[1:])
		default:
			w.exact[domain] = struct{}{}
		}
	}
	return w
}

// Matches reports whether host is covered by the whitelist.
func (w Whitelist) Matches(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return false
	}
	if _, ok := w.exact[host]; ok {
		return true
	}
	for _, suffix := range w.suffixes {
		if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			return true
		}
	}
	return false
}

// parseAbsolute returns the URL when raw is an absolute http(s) URL with a host.
func parseAbsolute(raw string) (*url.URL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Hostname() == "" {
		return nil, false
	}
	return parsed, true
}

// IsAbsoluteURL reports whether raw is an absolute http(s) URL.
func IsAbsoluteURL(raw string) bool {
	_, ok := parseAbsolute(raw)
	return ok
}
