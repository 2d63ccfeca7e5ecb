package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGitHub(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateView(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"github.timeout_seconds":   c.GitHub.TimeoutSeconds,
		"resolver.timeout_seconds": c.Resolver.TimeoutSeconds,
		"cache.max_entries":        c.Cache.MaxEntries,
		"storage.max_upload_mib":   c.Storage.MaxUploadMiB,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGitHub() error {
	parsed, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("github.base_url must be an absolute URL, got %q", c.GitHub.BaseURL)
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.BaseURL == "" {
		// Resolution disabled; every share link passes through untouched.
		return nil
	}
	parsed, err := url.Parse(c.Resolver.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("resolver.base_url must be an absolute http(s) URL, got %q", c.Resolver.BaseURL)
	}
	for _, domain := range c.Resolver.Domains {
		if strings.ContainsAny(domain, "/: ") {
			return fmt.Errorf("resolver.domains entry %q must be a bare host name", domain)
		}
	}
	return nil
}

func (c *Config) validateView() error {
	switch c.View.DuplicatePolicy {
	case DuplicateKeep, DuplicatePreferLive:
		return nil
	default:
		return errors.New("view.duplicate_policy must be \"keep\" or \"prefer_live\"")
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
