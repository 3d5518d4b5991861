package homepage

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// MapTopSites converts Homepage services to the static top sites list.
// Each service contributes its host; file order is rank order and a host
// listed twice keeps its first rank.
func MapTopSites(config ServicesConfig) ([]string, error) {
	sites := make([]string, 0)
	seen := make(map[string]bool)

	// Iterate through groups
	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			// Iterate through services in this group
			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					host := serviceHost(serviceMap[serviceName].Href)
					if host == "" || seen[host] {
						continue
					}
					seen[host] = true
					sites = append(sites, host)
				}
			}
		}
	}

	if len(sites) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}

	return sites, nil
}

// serviceHost extracts the lower-cased host of an href, or "" when invalid
// or not dotted.
// Example: "https://Jellyfin.domain.ext:8096/web" -> "jellyfin.domain.ext"
func serviceHost(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if !strings.Contains(href, "://") {
		href = "https://" + href
	}
	parsedURL, err := url.Parse(href)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsedURL.Hostname())
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

// sortedKeys makes map iteration deterministic
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
