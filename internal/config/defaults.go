package config

const (
	defaultConfigPath            = "~/.config/storefront/config.toml"
	defaultDataDir               = "~/.local/share/storefront"
	defaultLogDir                = "~/.local/share/storefront/logs"
	defaultUploadDir             = "~/.local/share/storefront/uploads"
	defaultAPIBind               = "127.0.0.1:7490"
	defaultGitHubBaseURL         = "https://api.github.com/"
	defaultGitHubWebHost         = "github.com"
	defaultGitHubTimeout         = 5
	defaultResolverBaseURL       = "http://127.0.0.1:7490"
	defaultResolverTimeout       = 5
	defaultResolverUserAgent     = "Storefront/dev"
	defaultCacheTTLSeconds       = 300
	defaultCacheMaxEntries       = 512
	defaultPublicBaseURL         = "/uploads"
	defaultMaxUploadMiB          = 8
	defaultIconPlaceholder       = "placeholder:app-icon"
	defaultScreenshotPlaceholder = "placeholder:screenshot"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	// DuplicateKeep preserves timeline rows that share a version string.
	DuplicateKeep = "keep"
	// DuplicatePreferLive drops manual rows that repeat the live tag.
	DuplicatePreferLive = "prefer_live"
)

// DefaultResolverDomains lists the share-page hosts sent to the resolver.
// Entries starting with "*." match any subdomain.
var DefaultResolverDomains = []string{
	"pinterest.com",
	"*.pinterest.com",
	"pin.it",
	"imgur.com",
	"ibb.co",
	"postimg.cc",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	domains := make([]string, len(DefaultResolverDomains))
	copy(domains, DefaultResolverDomains)
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			UploadDir: defaultUploadDir,
			APIBind:   defaultAPIBind,
		},
		GitHub: GitHub{
			BaseURL:        defaultGitHubBaseURL,
			WebHost:        defaultGitHubWebHost,
			TimeoutSeconds: defaultGitHubTimeout,
		},
		Resolver: Resolver{
			BaseURL:        defaultResolverBaseURL,
			TimeoutSeconds: defaultResolverTimeout,
			Domains:        domains,
			ResolveOnView:  true,
			UserAgent:      defaultResolverUserAgent,
		},
		Cache: Cache{
			TTLSeconds: defaultCacheTTLSeconds,
			MaxEntries: defaultCacheMaxEntries,
		},
		Storage: Storage{
			PublicBaseURL: defaultPublicBaseURL,
			MaxUploadMiB:  defaultMaxUploadMiB,
		},
		View: View{
			IconPlaceholder:       defaultIconPlaceholder,
			ScreenshotPlaceholder: defaultScreenshotPlaceholder,
			DuplicatePolicy:       DuplicateKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
