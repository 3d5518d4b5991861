package domain

import (
	"slices"
	"strings"
)

// candidate is a source entry on its way to becoming a SuggestionItem.
type candidate struct {
	title    string
	location string
	tabID    int
	frameKey string
	site     SiteEntry // ranking data; zero for non-site sources
}

// collectOptions describes one suggestion source.
type collectOptions struct {
	data       []candidate
	maxResults int
	typ        SuggestionType
	sort       func(a, b candidate) int // nil keeps natural order
	filter     func(c candidate) bool   // nil keeps everything
}

// collect turns one source into suggestion items:
//  1. keep candidates passing the source filter (and having a location)
//  2. drop locations already present in accumulated, except for tabs
//  3. stable sort
//  4. drop same-source duplicates, best-ranked first, except for tabs
//  5. truncate to maxResults
//  6. map to SuggestionItem
func collect(accumulated []SuggestionItem, opts collectOptions) []SuggestionItem {
	if opts.maxResults <= 0 || len(opts.data) == 0 {
		return nil
	}

	dedup := opts.typ != TypeTab
	taken := make(map[string]bool, len(accumulated))
	if dedup {
		for _, item := range accumulated {
			taken[LocationKey(item.Location)] = true
		}
	}

	kept := make([]candidate, 0, len(opts.data))
	for _, c := range opts.data {
		if strings.TrimSpace(c.location) == "" {
			continue
		}
		if opts.filter != nil && !opts.filter(c) {
			continue
		}
		if dedup && taken[LocationKey(c.location)] {
			continue
		}
		kept = append(kept, c)
	}

	if opts.sort != nil {
		slices.SortStableFunc(kept, opts.sort)
	}

	items := make([]SuggestionItem, 0, min(len(kept), opts.maxResults))
	for _, c := range kept {
		if len(items) >= opts.maxResults {
			break
		}
		if dedup {
			key := LocationKey(c.location)
			if taken[key] {
				continue
			}
			taken[key] = true
		}

		item := SuggestionItem{
			Title:    c.title,
			Location: c.location,
			Type:     opts.typ,
		}
		if opts.typ == TypeTab {
			item.TabID = c.tabID
		}
		items = append(items, item)
	}

	return items
}

// siteCandidates wraps site entries for collection.
func siteCandidates(sites []SiteEntry) []candidate {
	out := make([]candidate, 0, len(sites))
	for _, site := range sites {
		out = append(out, candidate{
			title:    site.Title,
			location: site.Location,
			site:     site,
		})
	}
	return out
}

// frameCandidates wraps open frames for collection.
func frameCandidates(frames []FrameEntry) []candidate {
	out := make([]candidate, 0, len(frames))
	for _, frame := range frames {
		out = append(out, candidate{
			title:    frame.Title,
			location: frame.Location,
			tabID:    frame.TabID,
			frameKey: frame.Key,
			site:     SiteEntry{Location: frame.Location, Title: frame.Title},
		})
	}
	return out
}

// urlCandidates wraps plain URL lists (about pages, top sites, search
// terms); the URL doubles as the title.
func urlCandidates(urls []string) []candidate {
	out := make([]candidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, candidate{
			title:    u,
			location: u,
		})
	}
	return out
}
