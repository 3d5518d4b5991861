package domain

import (
	"strings"
	"time"
)

// TagBookmark marks a site as bookmarked.
const TagBookmark = "bookmark"

// SiteEntry represents a history or bookmark record as seen by the
// suggestion engine.
//
// Entries are snapshots: the engine never mutates them and always
// returns freshly derived collections.
type SiteEntry struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// Location is the full URL of the site. Entries without one are
	// ignored by every suggestion source.
	// Example: https://brave.com/test
	Location string `json:"location"`

	// Title is the page title, possibly empty.
	Title string `json:"title,omitempty"`

	// Tags classifies the entry.
	// Example: ["bookmark"]
	Tags []string `json:"tags,omitempty"`

	// ─────────────────────────────
	// Learning
	// ─────────────────────────────

	// Count is the number of recorded visits.
	Count int64 `json:"count,omitempty"`

	// LastAccessedTime is the last visit. The zero value means the site
	// was never visited (typical for bookmarks imported from a file).
	LastAccessedTime time.Time `json:"lastAccessedTime,omitempty"`

	// ─────────────────────────────
	// Derived
	// ─────────────────────────────

	// Virtual is true for root entries synthesized at query time.
	// Virtual entries are never persisted.
	Virtual bool `json:"-"`
}

// IsBookmark reports whether the entry carries the bookmark tag.
func (s SiteEntry) IsBookmark() bool {
	for _, tag := range s.Tags {
		if tag == TagBookmark {
			return true
		}
	}
	return false
}

// HasLastAccessed reports whether the entry has ever been visited.
func (s SiteEntry) HasLastAccessed() bool {
	return !s.LastAccessedTime.IsZero()
}

// FrameEntry represents an open browser tab.
type FrameEntry struct {
	Key       string `json:"key"`
	TabID     int    `json:"tabId"`
	Location  string `json:"location"`
	Title     string `json:"title,omitempty"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}

// Snapshot is the immutable application state the engine reads on each
// computation. Collections are owned by the caller.
type Snapshot struct {
	HistorySites   []SiteEntry
	BookmarkSites  []SiteEntry
	OpenFrames     []FrameEntry
	ActiveFrameKey string
	SearchResults  []string
	TopSites       []string
	AboutPages     []string
}

// isAboutURL reports whether location is an internal about: page.
func isAboutURL(location string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(location)), "about:")
}

// DefaultAboutPages lists the about: pages a user can navigate to.
// Error and interstitial pages are not listed.
var DefaultAboutPages = []string{
	"about:about",
	"about:adblock",
	"about:autofill",
	"about:blank",
	"about:bookmarks",
	"about:brave",
	"about:contributions",
	"about:downloads",
	"about:extensions",
	"about:history",
	"about:newtab",
	"about:passwords",
	"about:preferences",
	"about:styles",
	"about:welcome",
}
