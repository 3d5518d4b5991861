package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ServicesFile     string        // homepage services.yaml, source of top sites (optional)
	BookmarkFile     string        // homepage bookmarks.yaml (optional, empty = file bookmarks disabled)
	ReloadInterval   time.Duration // interval to reload bookmarks and top sites (default: 24h)
	GCInterval       time.Duration // interval to run history garbage collection (default: 24h)
	HistoryRetention time.Duration // history not visited for this long is collected (default: 90d)
	AboutPages       []string      // navigable about: pages (default: domain.DefaultAboutPages)

	// Suggestion engine
	Suggestions domain.Settings

	// Live search
	SearchAutocompleteURL string        // OpenSearch suggestion URL with {searchTerms}
	SearchURL             string        // search results URL with {searchTerms}
	SearchDebounce        time.Duration // delay before a keystroke triggers a fetch
	SearchTimeout         time.Duration // per-request timeout
	SearchRetryMax        int           // retries on transient failures
	SearchRatePerSecond   float64       // outbound requests per second
	SearchBurst           int           // outbound burst size
	SearchCacheTTL        time.Duration // Redis cache TTL per query

	Redis                 redis.ConnectOptions
	RedisPasswordRequired bool // refuse to start with an empty password

	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	AllowedOrigins []string // optional, CORS origins allowed to call the API ("*" = any)
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateLimit      int      // requests per minute per client on /suggest (0 = unlimited)
}

const (
	DefaultAutocompleteURL = "https://search.brave.com/api/suggest?q={searchTerms}"
	DefaultSearchURL       = "https://search.brave.com/search?q={searchTerms}"
)

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("OMNIBOX_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("OMNIBOX_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("OMNIBOX_LOG_LEVEL", "info"),
		PrettyLog: mustBool("OMNIBOX_PRETTY_LOG", true),

		// Sources
		ServicesFile:     getenv("OMNIBOX_SERVICES_FILE", ""),
		BookmarkFile:     getenv("OMNIBOX_BOOKMARK_FILE", ""),
		ReloadInterval:   mustDuration("OMNIBOX_RELOAD_SOURCE_INTERVAL", 24*time.Hour),
		GCInterval:       mustDuration("OMNIBOX_GC_INTERVAL", 24*time.Hour),
		HistoryRetention: mustDuration("OMNIBOX_HISTORY_RETENTION", 90*24*time.Hour),
		AboutPages:       aboutPages(getenv("OMNIBOX_ABOUT_PAGES", "")),

		// Suggestion engine
		Suggestions: domain.Settings{
			HistorySuggestions:   mustBool("OMNIBOX_HISTORY_SUGGESTIONS", true),
			BookmarkSuggestions:  mustBool("OMNIBOX_BOOKMARK_SUGGESTIONS", true),
			OpenedTabSuggestions: mustBool("OMNIBOX_TAB_SUGGESTIONS", true),
			SearchSuggestions:    mustBool("OMNIBOX_SEARCH_SUGGESTIONS", true),
			MaxHistorySites:      getenvInt("OMNIBOX_MAX_HISTORY_SITES", domain.DefaultMaxHistorySites),
			MaxBookmarkSites:     getenvInt("OMNIBOX_MAX_BOOKMARK_SITES", domain.DefaultMaxBookmarkSites),
			MaxOpenedFrames:      getenvInt("OMNIBOX_MAX_OPENED_FRAMES", domain.DefaultMaxOpenedFrames),
			MaxSearch:            getenvInt("OMNIBOX_MAX_SEARCH", domain.DefaultMaxSearch),
			MaxTopSites:          getenvInt("OMNIBOX_MAX_TOP_SITES", domain.DefaultMaxTopSites),
			MaxAboutPages:        getenvInt("OMNIBOX_MAX_ABOUT_PAGES", domain.DefaultMaxAboutPages),
			AgeDecayConstant:     getenvFloat("OMNIBOX_AGE_DECAY_CONSTANT", domain.DefaultAgeDecayConstant),
		},

		// Live search
		SearchAutocompleteURL: getenv("OMNIBOX_SEARCH_AUTOCOMPLETE_URL", DefaultAutocompleteURL),
		SearchURL:             getenv("OMNIBOX_SEARCH_URL", DefaultSearchURL),
		SearchDebounce:        mustDuration("OMNIBOX_SEARCH_DEBOUNCE", 100*time.Millisecond),
		SearchTimeout:         mustDuration("OMNIBOX_SEARCH_TIMEOUT", 2*time.Second),
		SearchRetryMax:        getenvInt("OMNIBOX_SEARCH_RETRY_MAX", 1),
		SearchRatePerSecond:   getenvFloat("OMNIBOX_SEARCH_RATE", 5),
		SearchBurst:           getenvInt("OMNIBOX_SEARCH_BURST", 10),
		SearchCacheTTL:        mustDuration("OMNIBOX_SEARCH_CACHE_TTL", 10*time.Minute),

		Redis: redis.ConnectOptions{
			Addr:           requireEnv("OMNIBOX_REDIS_ADDR"),
			User:           getenv("OMNIBOX_REDIS_USERNAME", "default"),
			Password:       getenv("OMNIBOX_REDIS_PASSWORD", ""),
			RedisDB:        requireEnvInt("OMNIBOX_REDIS_DB"),
			DialTimeout:    mustDuration("OMNIBOX_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:    mustDuration("OMNIBOX_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:   mustDuration("OMNIBOX_REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:       getenvInt("OMNIBOX_REDIS_POOL_SIZE", 10),
			ConnectTimeout: mustDuration("OMNIBOX_REDIS_CONNECT_TIMEOUT", 30*time.Second),
			RetryInterval:  mustDuration("OMNIBOX_REDIS_RETRY_INTERVAL", 2*time.Second),
			MaxWait:        mustDuration("OMNIBOX_REDIS_MAX_WAIT", 10*time.Second),
			PingTimeout:    mustDuration("OMNIBOX_REDIS_PING_TIMEOUT", 5*time.Second),
			WarnThreshold:  getenvInt("OMNIBOX_REDIS_WARN_THRESHOLD", 3),
		},
		RedisPasswordRequired: mustBool("OMNIBOX_REDIS_PASSWORD_REQUIRED", true),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("OMNIBOX_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("OMNIBOX_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("OMNIBOX_ALLOWED_ORIGINS", "")),
		TrustProxy:     mustBool("OMNIBOX_TRUST_PROXY", true),
		RateLimit:      getenvInt("OMNIBOX_RATE_LIMIT", 600),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	return cfg
}

// aboutPages keeps the about: entries of a comma-separated list. An empty
// list selects the defaults.
func aboutPages(raw string) []string {
	var pages []string
	for _, p := range splitAndTrim(raw) {
		if strings.HasPrefix(strings.ToLower(p), "about:") {
			pages = append(pages, strings.ToLower(p))
		}
	}
	if len(pages) == 0 {
		return slices.Clone(domain.DefaultAboutPages)
	}
	return pages
}

func (c *Config) validate() error {
	if c.RedisPasswordRequired && c.Redis.Password == "" {
		return errors.New("OMNIBOX_REDIS_PASSWORD is required when OMNIBOX_REDIS_PASSWORD_REQUIRED=true")
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if c.SearchURL != "" && !strings.Contains(c.SearchURL, domain.SearchTermsPlaceholder) {
		return fmt.Errorf("OMNIBOX_SEARCH_URL must contain %s", domain.SearchTermsPlaceholder)
	}
	if c.Suggestions.SearchSuggestions && !strings.Contains(c.SearchAutocompleteURL, domain.SearchTermsPlaceholder) {
		return fmt.Errorf("OMNIBOX_SEARCH_AUTOCOMPLETE_URL must contain %s", domain.SearchTermsPlaceholder)
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	out := *c
	if out.Redis.Password != "" {
		out.Redis.Password = "***REDACTED***"
	}
	return out
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
