package release

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultHost is the web host repository URLs are matched against.
const DefaultHost = "github.com"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Ref identifies a repository on the source host.
type Ref struct {
	Owner string
	Repo  string
}

// String returns "owner/repo".
func (r Ref) String() string {
	return r.Owner + "/" + r.Repo
}

// Key returns a case-insensitive identity for caching.
func (r Ref) Key() string {
	return strings.ToLower(r.String())
}

// ParseRef extracts a reference from a github.com repository URL.
func ParseRef(raw string) (Ref, bool) {
	return ParseRefForHost(raw, DefaultHost)
}

// ParseRefForHost extracts a reference from a repository URL on host.
// Accepted forms: http(s)://[www.]host/owner/repo with optional trailing
// slash, ".git" suffix, or extra path segments, and git@host:owner/repo.git.
// Anything else reports false.
func ParseRefForHost(raw, host string) (Ref, bool) {
	raw = strings.TrimSpace(raw)
	host = strings.ToLower(strings.TrimSpace(host))
	if raw == "" || host == "" {
		return Ref{}, false
	}

	var path string
	if rest, ok := strings.CutPrefix(raw, "git@"); ok {
		hostPart, repoPath, found := strings.Cut(rest, ":")
		if !found || !sameHost(hostPart, host) {
			return Ref{}, false
		}
		path = repoPath
	} else {
		parsed, err := url.Parse(raw)
		if err != nil {
			return Ref{}, false
		}
		scheme := strings.ToLower(parsed.Scheme)
		if scheme != "http" && scheme != "https" {
			return Ref{}, false
		}
		if parsed.User != nil || !sameHost(parsed.Hostname(), host) {
			return Ref{}, false
		}
		path = parsed.Path
	}

	segments := make([]string, 0, 2)
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) < 2 {
		return Ref{}, false
	}

	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")
	if !validName(owner) || !validName(repo) {
		return Ref{}, false
	}
	return Ref{Owner: owner, Repo: repo}, true
}

func sameHost(candidate, host string) bool {
	candidate = strings.ToLower(strings.TrimSuffix(candidate, "."))
	candidate = strings.TrimPrefix(candidate, "www.")
	return candidate == host
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && namePattern.MatchString(name)
}
