package config

import (
	"slices"
	"testing"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s should have panicked", name)
		}
	}()
	fn()
}

func TestRequiredEnv(t *testing.T) {
	t.Setenv("TEST_REQUIRED", "value")
	t.Setenv("TEST_REQUIRED_INT", "42")
	t.Setenv("TEST_REQUIRED_BAD_INT", "forty-two")

	if got := requireEnv("TEST_REQUIRED"); got != "value" {
		t.Errorf("requireEnv() = %q, want value", got)
	}
	if got := requireEnvInt("TEST_REQUIRED_INT"); got != 42 {
		t.Errorf("requireEnvInt() = %d, want 42", got)
	}

	mustPanic(t, "requireEnv(missing)", func() { requireEnv("TEST_REQUIRED_MISSING") })
	mustPanic(t, "requireEnvInt(missing)", func() { requireEnvInt("TEST_REQUIRED_MISSING") })
	mustPanic(t, "requireEnvInt(not a number)", func() { requireEnvInt("TEST_REQUIRED_BAD_INT") })
}

func TestOptionalEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		got   func() any
		want  any
	}{
		{name: "duration", value: "5s", got: func() any { return mustDuration("TEST_OPT", time.Second) }, want: 5 * time.Second},
		{name: "bad duration", value: "soon", got: func() any { return mustDuration("TEST_OPT", time.Second) }, want: time.Second},
		{name: "missing duration", value: "", got: func() any { return mustDuration("TEST_OPT", 15*time.Second) }, want: 15 * time.Second},
		{name: "bool true", value: "true", got: func() any { return mustBool("TEST_OPT", false) }, want: true},
		{name: "bool false", value: "0", got: func() any { return mustBool("TEST_OPT", true) }, want: false},
		{name: "bad bool", value: "maybe", got: func() any { return mustBool("TEST_OPT", true) }, want: true},
		{name: "int", value: "7", got: func() any { return getenvInt("TEST_OPT", 3) }, want: 7},
		{name: "bad int", value: "seven", got: func() any { return getenvInt("TEST_OPT", 3) }, want: 3},
		{name: "string", value: "x", got: func() any { return getenv("TEST_OPT", "def") }, want: "x"},
		{name: "missing string", value: "", got: func() any { return getenv("TEST_OPT", "def") }, want: "def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_OPT", tt.value)
			if got := tt.got(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetenvFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      float64
		expected float64
	}{
		{name: "valid float", value: "12.5", def: 50, expected: 12.5},
		{name: "integer", value: "7", def: 50, expected: 7},
		{name: "invalid float uses default", value: "fast", def: 50, expected: 50},
		{name: "missing variable uses default", value: "", def: 50, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT", tt.value)

			if got := getenvFloat("TEST_FLOAT", tt.def); got != tt.expected {
				t.Errorf("getenvFloat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty", value: "", expected: nil},
		{name: "single", value: "omnibox.domain.ext", expected: []string{"omnibox.domain.ext"}},
		{name: "spaces and quotes", value: ` "a.ext", 'b.ext' ,, c.ext `, expected: []string{"a.ext", "b.ext", "c.ext"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.value)
			if len(got) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OMNIBOX_REDIS_ADDR", "localhost:6379")
	t.Setenv("OMNIBOX_REDIS_DB", "0")
	t.Setenv("OMNIBOX_REDIS_PASSWORD_REQUIRED", "false")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %v, want :8080", cfg.ListenPort)
	}
	if cfg.Suggestions != domain.DefaultSettings() {
		t.Errorf("Suggestions = %+v, want defaults", cfg.Suggestions)
	}
	if cfg.SearchURL != DefaultSearchURL || cfg.SearchAutocompleteURL != DefaultAutocompleteURL {
		t.Errorf("search templates = %q, %q", cfg.SearchURL, cfg.SearchAutocompleteURL)
	}
	if cfg.HistoryRetention != 90*24*time.Hour {
		t.Errorf("HistoryRetention = %v", cfg.HistoryRetention)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.ConnectTimeout != 30*time.Second || cfg.Redis.User != "default" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.AllowedHosts != nil || cfg.AllowedCIDRS != nil {
		t.Errorf("access restrictions should be empty, got %v %v", cfg.AllowedHosts, cfg.AllowedCIDRS)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("OMNIBOX_MAX_HISTORY_SITES", "5")
	t.Setenv("OMNIBOX_TAB_SUGGESTIONS", "false")
	t.Setenv("OMNIBOX_AGE_DECAY_CONSTANT", "20")
	t.Setenv("OMNIBOX_SEARCH_DEBOUNCE", "250ms")
	t.Setenv("OMNIBOX_ALLOWED_HOSTS", "omnibox.domain.ext, localhost:8080")

	cfg := Load()

	if cfg.Suggestions.MaxHistorySites != 5 {
		t.Errorf("MaxHistorySites = %v, want 5", cfg.Suggestions.MaxHistorySites)
	}
	if cfg.Suggestions.OpenedTabSuggestions {
		t.Error("OpenedTabSuggestions should be disabled")
	}
	if cfg.Suggestions.AgeDecayConstant != 20 {
		t.Errorf("AgeDecayConstant = %v, want 20", cfg.Suggestions.AgeDecayConstant)
	}
	if cfg.SearchDebounce != 250*time.Millisecond {
		t.Errorf("SearchDebounce = %v, want 250ms", cfg.SearchDebounce)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "localhost:8080" {
		t.Errorf("AllowedHosts = %v", cfg.AllowedHosts)
	}
}

func TestLoadPanics(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "password required but missing",
			env:  map[string]string{"OMNIBOX_REDIS_PASSWORD_REQUIRED": "true"},
		},
		{
			name: "search url without placeholder",
			env:  map[string]string{"OMNIBOX_SEARCH_URL": "https://search.brave.com/search"},
		},
		{
			name: "zero redis connect timeout",
			env:  map[string]string{"OMNIBOX_REDIS_CONNECT_TIMEOUT": "0s"},
		},
		{
			name: "autocomplete url without placeholder",
			env:  map[string]string{"OMNIBOX_SEARCH_AUTOCOMPLETE_URL": "https://search.brave.com/api/suggest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			mustPanic(t, "Load()", func() { Load() })
		})
	}
}

func TestRedacted(t *testing.T) {
	setRequired(t)
	t.Setenv("OMNIBOX_REDIS_PASSWORD", "hunter2")

	cfg := Load()
	red := cfg.Redacted()

	if red.Redis.Password == "hunter2" {
		t.Error("Redacted() kept the password")
	}
	if cfg.Redis.Password != "hunter2" {
		t.Error("Redacted() modified the original config")
	}
}

func TestAboutPages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty uses defaults", "", domain.DefaultAboutPages},
		{"custom list", "about:blank, About:History", []string{"about:blank", "about:history"}},
		{"non about entries dropped", "about:blank,https://example.com", []string{"about:blank"}},
		{"nothing usable uses defaults", "chrome://settings", domain.DefaultAboutPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aboutPages(tt.raw); !slices.Equal(got, tt.want) {
				t.Errorf("aboutPages(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
