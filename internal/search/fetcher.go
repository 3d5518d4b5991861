package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/utils"
)

const (
	DefaultDebounce = 100 * time.Millisecond
	DefaultTimeout  = 2 * time.Second
	DefaultCacheTTL = 10 * time.Minute

	// maxBodyBytes caps the autocomplete payload
	maxBodyBytes = 1 << 20
)

var (
	ErrCircuitOpen = errors.New("search provider circuit is open")
	ErrBadPayload  = errors.New("unexpected autocomplete payload")
)

// Cache stores autocomplete results per query
type Cache interface {
	GetCachedSearchResults(ctx context.Context, query string) ([]string, bool, error)
	CacheSearchResults(ctx context.Context, query string, results []string, ttl time.Duration) error
}

// Result is one completed fetch, tagged with the sequence number of the
// input that requested it
type Result struct {
	Key     string
	Seq     uint64
	Input   string
	Results []string
}

// Options configures the fetcher
type Options struct {
	// AutocompleteURL is an OpenSearch suggestion URL template with a
	// {searchTerms} placeholder.
	// Example: https://duckduckgo.com/ac/?q={searchTerms}&type=list
	AutocompleteURL string
	Debounce        time.Duration
	Timeout         time.Duration
	RetryMax        int
	RatePerSecond   float64
	Burst           int
	CacheTTL        time.Duration
	// BreakerFailures consecutive failures open the circuit for BreakerCooldown
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Fetcher runs debounced live search requests. A newer request for the same
// key replaces a pending one; results are handed to the deliver callback.
// Failures deliver nothing.
type Fetcher struct {
	opts    Options
	client  *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   Cache
	logger  logger.Logger
	deliver func(Result)

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// NewFetcher creates a fetcher. cache may be nil.
func NewFetcher(opts Options, cache Cache, log logger.Logger, deliver func(Result)) *Fetcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	f := &Fetcher{
		opts:    opts,
		client:  newHTTPClient(opts),
		limiter: rate.NewLimiter(limit, opts.Burst),
		cache:   cache,
		logger:  log,
		deliver: deliver,
		pending: make(map[string]*time.Timer),
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search-autocomplete",
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("search circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return f
}

func newHTTPClient(opts Options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = stdlog.New(io.Discard, "", 0)
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 50 * time.Millisecond
	client.RetryWaitMax = 500 * time.Millisecond
	client.HTTPClient.Timeout = opts.Timeout
	return client
}

// ShouldFetch reports whether input is worth a live search: non-empty
// and not already a URL, with or without a scheme
func ShouldFetch(input string) bool {
	input = strings.TrimSpace(input)
	return input != "" && !domain.LooksLikeURL(input)
}

// Request schedules a fetch for input after the debounce delay, replacing
// any pending request for key. It reports whether a fetch was scheduled.
func (f *Fetcher) Request(key, input string, seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if timer, ok := f.pending[key]; ok {
		timer.Stop()
		delete(f.pending, key)
	}
	if f.closed || f.opts.AutocompleteURL == "" || !ShouldFetch(input) {
		return false
	}

	var timer *time.Timer
	timer = time.AfterFunc(f.opts.Debounce, func() {
		f.mu.Lock()
		if f.pending[key] != timer {
			f.mu.Unlock()
			return
		}
		delete(f.pending, key)
		f.mu.Unlock()

		f.run(key, input, seq)
	})
	f.pending[key] = timer
	return true
}

// Cancel drops the pending request for key, if any
func (f *Fetcher) Cancel(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if timer, ok := f.pending[key]; ok {
		timer.Stop()
		delete(f.pending, key)
	}
}

// BreakerState reports the circuit breaker state: "closed", "half-open"
// or "open"
func (f *Fetcher) BreakerState() string {
	return f.breaker.State().String()
}

// Close cancels every pending request. Later requests are ignored.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for key, timer := range f.pending {
		timer.Stop()
		delete(f.pending, key)
	}
}

func (f *Fetcher) run(key, input string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), f.opts.Timeout*time.Duration(f.opts.RetryMax+1))
	defer cancel()

	results, err := f.Fetch(ctx, input)
	if err != nil {
		f.logger.Debug("live search failed",
			logger.String("window", key),
			logger.Uint64("seq", seq),
			logger.Error(err))
		return
	}

	f.deliver(Result{
		Key:     key,
		Seq:     seq,
		Input:   input,
		Results: results,
	})
}

// Fetch returns the autocomplete suggestions for input, from the cache
// when possible. The cache is keyed on the exact query sent upstream.
func (f *Fetcher) Fetch(ctx context.Context, input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if f.cache != nil {
		cached, ok, err := f.cache.GetCachedSearchResults(ctx, input)
		if err != nil {
			f.logger.Warn("search cache lookup failed", logger.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.fetchRemote(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	results := out.([]string)

	if f.cache != nil {
		// Best effort
		if err := f.cache.CacheSearchResults(ctx, input, results, f.opts.CacheTTL); err != nil {
			f.logger.Warn("failed to cache search results", logger.Error(err))
		}
	}
	return results, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, input string) ([]string, error) {
	endpoint := domain.SearchURL(f.opts.AutocompleteURL, input)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/x-suggestions+json, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query search provider: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	return ParseSuggestions(body)
}

// ParseSuggestions extracts the suggestion list from an OpenSearch
// suggestions payload: ["query", ["s1", "s2", ...], ...]
func ParseSuggestions(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrBadPayload)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: not an array", ErrBadPayload)
	}

	list := root.Get("1")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing suggestion list", ErrBadPayload)
	}

	results := make([]string, 0)
	list.ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.String && strings.TrimSpace(value.Str) != "" {
			results = append(results, value.Str)
		}
		return true
	})
	return results, nil
}
