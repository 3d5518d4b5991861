package domain

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// SynthesizeVirtualSites builds root entries for hosts that appear in
// history only through deep links, so that typing a bare domain still
// offers the domain itself.
//
// Entries are grouped by host. A group that already contains a root URL
// yields nothing; otherwise one virtual root is built from the scheme and
// host of the group's first entry. Entries without a host are skipped.
// The result is keyed by location.
func SynthesizeVirtualSites(entries []SiteEntry, now time.Time) map[string]SiteEntry {
	virtual := make(map[string]SiteEntry)
	if len(entries) == 0 {
		return virtual
	}

	groups := make(map[string][]*url.URL)
	order := make([]string, 0)
	for _, entry := range entries {
		if strings.TrimSpace(entry.Location) == "" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(entry.Location))
		if err != nil || u.Host == "" {
			// unparseable or host-less (about:, file paths): never synthesized
			continue
		}
		u.Host = strings.ToLower(u.Host)
		host := u.Host
		if _, seen := groups[host]; !seen {
			order = append(order, host)
		}
		groups[host] = append(groups[host], u)
	}

	for _, host := range order {
		site, ok := virtualSite(groups[host], now)
		if !ok {
			continue
		}
		virtual[site.Location] = site
	}

	return virtual
}

// virtualSite returns a root entry for the group, or false when the group
// already has one.
func virtualSite(group []*url.URL, now time.Time) (SiteEntry, bool) {
	if len(group) == 0 {
		return SiteEntry{}, false
	}
	for _, u := range group {
		if isRootURL(u) {
			return SiteEntry{}, false
		}
	}

	first := group[0]
	scheme := first.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return SiteEntry{
		Location:         scheme + "://" + first.Host + "/",
		Title:            first.Host,
		Count:            0,
		LastAccessedTime: now,
		Virtual:          true,
	}, true
}

// MergeVirtualSites appends virtual entries to entries, in location order,
// skipping any whose location is already present.
func MergeVirtualSites(entries []SiteEntry, virtual map[string]SiteEntry) []SiteEntry {
	merged := make([]SiteEntry, 0, len(entries)+len(virtual))
	merged = append(merged, entries...)
	if len(virtual) == 0 {
		return merged
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		seen[LocationKey(entry.Location)] = true
	}

	locations := make([]string, 0, len(virtual))
	for location := range virtual {
		locations = append(locations, location)
	}
	slices.Sort(locations)

	for _, location := range locations {
		if seen[LocationKey(location)] {
			continue
		}
		merged = append(merged, virtual[location])
	}
	return merged
}
