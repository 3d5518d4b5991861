package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]string)}
}

func (c *memoryCache) GetCachedSearchResults(_ context.Context, query string) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.data[query]
	return results, ok, nil
}

func (c *memoryCache) CacheSearchResults(_ context.Context, query string, results []string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[query] = results
	return nil
}

func newTestServer(t *testing.T, hits *atomic.Int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{name: "opensearch payload", body: `["brave",["brave browser","brave search"]]`, want: []string{"brave browser", "brave search"}},
		{name: "extra fields ignored", body: `["b",["b1"],["desc"],["url"]]`, want: []string{"b1"}},
		{name: "non strings skipped", body: `["b",["b1",3,null,""," "]]`, want: []string{"b1"}},
		{name: "empty list", body: `["b",[]]`, want: []string{}},
		{name: "object payload", body: `{"q":"b"}`, wantErr: true},
		{name: "missing list", body: `["b"]`, wantErr: true},
		{name: "invalid json", body: `["b",[`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSuggestions([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrBadPayload) {
					t.Errorf("ParseSuggestions() error = %v, want ErrBadPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSuggestions() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseSuggestions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldFetch(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "brave", want: true},
		{input: "brave browser", want: true},
		{input: "", want: false},
		{input: "   ", want: false},
		{input: "https://brave.com", want: false},
		{input: "About:blank", want: false},
		{input: "brave.com/test", want: false},
		{input: "search.brave.com", want: false},
		{input: "co.uk", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ShouldFetch(tt.input); got != tt.want {
				t.Errorf("ShouldFetch(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFetch_QueryAndCache(t *testing.T) {
	var gotQuery atomic.Value
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotQuery.Store(r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`["brave browser",["brave browser download"]]`))
	}))
	defer srv.Close()

	cache := newMemoryCache()
	f := NewFetcher(Options{AutocompleteURL: srv.URL + "/ac?q={searchTerms}"}, cache, logger.Nop(), func(Result) {})

	results, err := f.Fetch(context.Background(), "brave browser")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !slices.Equal(results, []string{"brave browser download"}) {
		t.Errorf("Fetch() = %v", results)
	}
	if q, _ := gotQuery.Load().(string); q != "brave browser" {
		t.Errorf("server saw q=%q, want %q", q, "brave browser")
	}

	// Second fetch is served from the cache
	if _, err := f.Fetch(context.Background(), "brave browser"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestFetch_CacheKeepsQueryCase(t *testing.T) {
	var gotQuery atomic.Value
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotQuery.Store(r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`["q",["s"]]`))
	}))
	defer srv.Close()

	cache := newMemoryCache()
	f := NewFetcher(Options{AutocompleteURL: srv.URL + "/ac?q={searchTerms}"}, cache, logger.Nop(), func(Result) {})

	if _, err := f.Fetch(context.Background(), "  Brave "); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if q, _ := gotQuery.Load().(string); q != "Brave" {
		t.Errorf("server saw q=%q, want %q", q, "Brave")
	}
	if _, ok, _ := cache.GetCachedSearchResults(context.Background(), "Brave"); !ok {
		t.Error("results not cached under the query sent upstream")
	}

	if _, err := f.Fetch(context.Background(), "brave"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestFetch_CircuitOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits, http.StatusBadRequest, "nope")

	f := NewFetcher(Options{
		AutocompleteURL: srv.URL + "/?q={searchTerms}",
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, nil, logger.Nop(), func(Result) {})

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), "brave"); err == nil {
			t.Fatalf("Fetch() #%d should fail", i+1)
		}
	}

	_, err := f.Fetch(context.Background(), "brave")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Fetch() error = %v, want ErrCircuitOpen", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestRequest_DebounceKeepsLatest(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits, http.StatusOK, `["q",["s1","s2"]]`)

	delivered := make(chan Result, 4)
	f := NewFetcher(Options{
		AutocompleteURL: srv.URL + "/?q={searchTerms}",
		Debounce:        50 * time.Millisecond,
	}, nil, logger.Nop(), func(r Result) { delivered <- r })
	defer f.Close()

	f.Request("w1", "b", 1)
	f.Request("w1", "br", 2)
	f.Request("w1", "bra", 3)

	select {
	case r := <-delivered:
		if r.Seq != 3 || r.Input != "bra" || r.Key != "w1" {
			t.Errorf("delivered %+v, want seq 3 for %q", r, "bra")
		}
		if !slices.Equal(r.Results, []string{"s1", "s2"}) {
			t.Errorf("results = %v", r.Results)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}

	select {
	case r := <-delivered:
		t.Errorf("unexpected extra delivery %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestRequest_SkipsAndCancels(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits, http.StatusOK, `["q",["s"]]`)

	delivered := make(chan Result, 1)
	f := NewFetcher(Options{
		AutocompleteURL: srv.URL + "/?q={searchTerms}",
		Debounce:        50 * time.Millisecond,
	}, nil, logger.Nop(), func(r Result) { delivered <- r })
	defer f.Close()

	if f.Request("w1", "https://brave.com", 1) {
		t.Error("URL input should not be fetched")
	}

	if !f.Request("w1", "brave", 2) {
		t.Fatal("Request() should schedule a fetch")
	}
	f.Cancel("w1")

	select {
	case r := <-delivered:
		t.Errorf("cancelled request delivered %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
}

func TestRequest_FailureDeliversNothing(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits, http.StatusOK, `not json`)

	delivered := make(chan Result, 1)
	f := NewFetcher(Options{
		AutocompleteURL: srv.URL + "/?q={searchTerms}",
		Debounce:        10 * time.Millisecond,
	}, nil, logger.Nop(), func(r Result) { delivered <- r })
	defer f.Close()

	f.Request("w1", "brave", 1)

	select {
	case r := <-delivered:
		t.Errorf("failed fetch delivered %+v", r)
	case <-time.After(300 * time.Millisecond):
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}
