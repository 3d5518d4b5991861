package index

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

// MemoryIndex holds the application state the suggestion engine reads:
// history, bookmarks, open frames, top sites and about pages.
// It is the source of truth at runtime; Redis only persists history.
type MemoryIndex struct {
	mu                 sync.RWMutex
	history            map[string]*domain.SiteEntry // LocationKey -> entry
	bookmarks          map[string]*domain.SiteEntry // LocationKey -> entry
	frames             []domain.FrameEntry
	activeFrameKey     string
	topSites           []string
	aboutPages         []string
	lastBookmarkReload time.Time // Timestamp of last bookmarks reload
	lastTopSitesReload time.Time // Timestamp of last top sites reload
}

// NewMemoryIndex creates a new memory index with the default about pages
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		history:    make(map[string]*domain.SiteEntry),
		bookmarks:  make(map[string]*domain.SiteEntry),
		aboutPages: slices.Clone(domain.DefaultAboutPages),
	}
}

// ─────────────────────────────────────────────────────────────────
// History methods
// ─────────────────────────────────────────────────────────────────

// UpdateHistory replaces all history entries
func (idx *MemoryIndex) UpdateHistory(sites []*domain.SiteEntry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.history = make(map[string]*domain.SiteEntry, len(sites))
	for _, site := range sites {
		if site == nil || strings.TrimSpace(site.Location) == "" {
			continue
		}
		idx.history[domain.LocationKey(site.Location)] = cloneSite(site)
	}
}

// RecordVisit bumps the visit count and last access of a location,
// creating the entry on first visit. A non-empty title replaces the old one.
// It returns a copy of the updated entry.
func (idx *MemoryIndex) RecordVisit(location, title string, at time.Time) domain.SiteEntry {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := domain.LocationKey(location)
	site, ok := idx.history[key]
	if !ok {
		site = &domain.SiteEntry{Location: strings.TrimSpace(location)}
		idx.history[key] = site
	}
	site.Count++
	site.LastAccessedTime = at
	if title != "" {
		site.Title = title
	}
	return *cloneSite(site)
}

// GetHistory retrieves a history entry by location
func (idx *MemoryIndex) GetHistory(location string) (domain.SiteEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	site, ok := idx.history[domain.LocationKey(location)]
	if !ok {
		return domain.SiteEntry{}, false
	}
	return *cloneSite(site), true
}

// GetAllHistory returns a copy of every history entry, sorted by location
func (idx *MemoryIndex) GetAllHistory() []*domain.SiteEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return sortedSites(idx.history)
}

// DeleteHistory removes a history entry
func (idx *MemoryIndex) DeleteHistory(location string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.history, domain.LocationKey(location))
}

// HistoryCount returns the number of history entries
func (idx *MemoryIndex) HistoryCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.history)
}

// ─────────────────────────────────────────────────────────────────
// Bookmark methods
// ─────────────────────────────────────────────────────────────────

// UpdateBookmarks replaces all bookmarks in the index
func (idx *MemoryIndex) UpdateBookmarks(sites []*domain.SiteEntry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.bookmarks = make(map[string]*domain.SiteEntry, len(sites))
	for _, site := range sites {
		if site == nil || strings.TrimSpace(site.Location) == "" {
			continue
		}
		idx.bookmarks[domain.LocationKey(site.Location)] = cloneSite(site)
	}
	idx.lastBookmarkReload = time.Now()
}

// GetAllBookmarks returns a copy of every bookmark, sorted by location
func (idx *MemoryIndex) GetAllBookmarks() []*domain.SiteEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return sortedSites(idx.bookmarks)
}

// BookmarkCount returns the number of bookmarks in the index
func (idx *MemoryIndex) BookmarkCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.bookmarks)
}

// GetLastBookmarkReload returns the timestamp of the last bookmarks reload
func (idx *MemoryIndex) GetLastBookmarkReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastBookmarkReload
}

// ─────────────────────────────────────────────────────────────────
// Frames, top sites, about pages
// ─────────────────────────────────────────────────────────────────

// SetFrames replaces the open frames and the active frame key
func (idx *MemoryIndex) SetFrames(frames []domain.FrameEntry, activeFrameKey string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.frames = slices.Clone(frames)
	idx.activeFrameKey = activeFrameKey
}

// FrameCount returns the number of open frames
func (idx *MemoryIndex) FrameCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.frames)
}

// UpdateTopSites replaces the static top sites list. Order is rank order.
func (idx *MemoryIndex) UpdateTopSites(sites []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.topSites = slices.Clone(sites)
	idx.lastTopSitesReload = time.Now()
}

// TopSitesCount returns the number of top sites
func (idx *MemoryIndex) TopSitesCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.topSites)
}

// GetLastTopSitesReload returns the timestamp of the last top sites reload
func (idx *MemoryIndex) GetLastTopSitesReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastTopSitesReload
}

// SetAboutPages replaces the navigable about: pages
func (idx *MemoryIndex) SetAboutPages(pages []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.aboutPages = slices.Clone(pages)
}

// ─────────────────────────────────────────────────────────────────
// Snapshot
// ─────────────────────────────────────────────────────────────────

// Snapshot returns a copy of the current state for the suggestion engine.
// Site collections are sorted by location so the same state always
// yields the same snapshot. SearchResults is left empty; it belongs to
// each window.
func (idx *MemoryIndex) Snapshot() domain.Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.Snapshot{
		HistorySites:   derefSites(sortedSites(idx.history)),
		BookmarkSites:  derefSites(sortedSites(idx.bookmarks)),
		OpenFrames:     slices.Clone(idx.frames),
		ActiveFrameKey: idx.activeFrameKey,
		TopSites:       slices.Clone(idx.topSites),
		AboutPages:     slices.Clone(idx.aboutPages),
	}
}

func cloneSite(site *domain.SiteEntry) *domain.SiteEntry {
	c := *site
	c.Tags = slices.Clone(site.Tags)
	return &c
}

func sortedSites(m map[string]*domain.SiteEntry) []*domain.SiteEntry {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make([]*domain.SiteEntry, 0, len(keys))
	for _, key := range keys {
		out = append(out, cloneSite(m[key]))
	}
	return out
}

func derefSites(sites []*domain.SiteEntry) []domain.SiteEntry {
	out := make([]domain.SiteEntry, 0, len(sites))
	for _, site := range sites {
		out = append(out, *site)
	}
	return out
}
