package domain

import (
	"strings"
	"time"
)

// Engine computes URL bar suggestions from a state snapshot.
// It holds no state between calls: the same input and snapshot always
// produce the same list.
type Engine struct {
	settings Settings
	now      func() time.Time
}

// NewEngine creates an engine. A nil clock defaults to time.Now.
func NewEngine(settings Settings, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	if settings.AgeDecayConstant <= 0 {
		settings.AgeDecayConstant = DefaultAgeDecayConstant
	}
	return &Engine{
		settings: settings,
		now:      now,
	}
}

// Settings returns the engine settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Suggest builds the suggestion list for input. Sources are collected in
// SourceOrder, each one skipping locations already offered by an earlier
// source (tabs excepted).
func (e *Engine) Suggest(input string, snap Snapshot) []SuggestionItem {
	suggestions := make([]SuggestionItem, 0)
	if strings.TrimSpace(input) == "" {
		return suggestions
	}

	now := e.now()
	inputLower := strings.ToLower(input)
	byLocation := LocationComparator(input, now, e.settings.AgeDecayConstant)
	sortByLocation := func(a, b candidate) int {
		return byLocation(a.site, b.site)
	}
	matches := func(c candidate) bool {
		return containsFold(c.title, inputLower) || containsFold(c.location, inputLower)
	}

	// history
	if e.settings.HistorySuggestions {
		historyFilter := func(c candidate) bool {
			return c.site.HasLastAccessed() && matches(c)
		}
		suggestions = append(suggestions, collect(suggestions, collectOptions{
			data:       siteCandidates(e.historyWithVirtualSites(snap.HistorySites, historyFilter, now)),
			maxResults: e.settings.MaxHistorySites,
			typ:        TypeHistory,
			sort:       sortByLocation,
			filter:     historyFilter,
		})...)
	}

	// bookmarks
	if e.settings.BookmarkSuggestions {
		suggestions = append(suggestions, collect(suggestions, collectOptions{
			data:       siteCandidates(snap.BookmarkSites),
			maxResults: e.settings.MaxBookmarkSites,
			typ:        TypeBookmark,
			sort:       sortByLocation,
			filter: func(c candidate) bool {
				return c.site.IsBookmark() && matches(c)
			},
		})...)
	}

	// about pages
	suggestions = append(suggestions, collect(suggestions, collectOptions{
		data:       urlCandidates(snap.AboutPages),
		maxResults: e.settings.MaxAboutPages,
		typ:        TypeAboutPages,
		filter: func(c candidate) bool {
			return containsFold(c.location, inputLower)
		},
	})...)

	// opened tabs
	if e.settings.OpenedTabSuggestions {
		suggestions = append(suggestions, collect(suggestions, collectOptions{
			data:       frameCandidates(snap.OpenFrames),
			maxResults: e.settings.MaxOpenedFrames,
			typ:        TypeTab,
			sort:       sortByLocation,
			filter: func(c candidate) bool {
				if isAboutURL(c.location) {
					return false
				}
				if snap.ActiveFrameKey != "" && c.frameKey == snap.ActiveFrameKey {
					return false
				}
				return matches(c)
			},
		})...)
	}

	// live search, already filtered and ordered upstream
	if e.settings.SearchSuggestions {
		suggestions = append(suggestions, collect(suggestions, collectOptions{
			data:       urlCandidates(snap.SearchResults),
			maxResults: e.settings.MaxSearch,
			typ:        TypeSearch,
		})...)
	}

	// top sites, static rank order
	suggestions = append(suggestions, collect(suggestions, collectOptions{
		data:       urlCandidates(snap.TopSites),
		maxResults: e.settings.MaxTopSites,
		typ:        TypeTopSite,
		filter: func(c candidate) bool {
			return containsFold(c.location, inputLower)
		},
	})...)

	return suggestions
}

// historyWithVirtualSites returns the history entries matching filter plus
// the virtual roots synthesized from them.
func (e *Engine) historyWithVirtualSites(history []SiteEntry, filter func(c candidate) bool, now time.Time) []SiteEntry {
	matching := make([]SiteEntry, 0, len(history))
	for _, site := range history {
		if filter(candidate{title: site.Title, location: site.Location, site: site}) {
			matching = append(matching, site)
		}
	}
	return MergeVirtualSites(matching, SynthesizeVirtualSites(matching, now))
}
