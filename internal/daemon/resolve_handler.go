package daemon

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/assets"
	"storefront/internal/assets/ogimage"
	"storefront/internal/logging"
)

type resolvePayload struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleResolveImage serves the share-link resolution endpoint. Only hosts
// on the configured whitelist are fetched.
func (s *apiServer) handleResolveImage(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if !assets.IsAbsoluteURL(raw) {
		s.writeJSON(w, http.StatusBadRequest, resolvePayload{Error: "url must be an absolute http(s) link"})
		return
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, resolvePayload{Error: "url could not be parsed"})
		return
	}
	whitelist := assets.NewWhitelist(s.daemon.cfg.Resolver.Domains)
	if !whitelist.Matches(parsed.Hostname()) {
		s.writeJSON(w, http.StatusBadRequest, resolvePayload{Error: "links from " + parsed.Hostname() + " are not supported"})
		return
	}

	image, err := s.daemon.extractor.Extract(r.Context(), raw)
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Info("share page resolution failed",
			logging.String("url", raw),
			logging.Error(err))
		message := "could not load the share page"
		switch {
		case errors.Is(err, ogimage.ErrNoImage):
			message = "no image found on the share page"
		case errors.Is(err, ogimage.ErrRedirectBlocked):
			message = "the share page redirected to an unsupported host"
		}
		s.writeJSON(w, http.StatusBadGateway, resolvePayload{Error: message})
		return
	}
	s.writeJSON(w, http.StatusOK, resolvePayload{ImageURL: image})
}
