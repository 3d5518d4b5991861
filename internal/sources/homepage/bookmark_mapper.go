package homepage

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

// SourceTag marks sites imported from Homepage
const SourceTag = "homepage"

// MapBookmarks converts BookmarksConfig to bookmark site entries.
// The title is the abbreviation when present, the bookmark name otherwise.
// Entries are returned sorted by location; a location listed twice keeps
// its first definition.
func MapBookmarks(config BookmarksConfig) ([]*domain.SiteEntry, error) {
	byKey := make(map[string]*domain.SiteEntry)

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					entryList := bookmarkMap[bookmarkName]
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]

					href := strings.TrimSpace(entry.Href)
					if href == "" {
						continue
					}
					key := domain.LocationKey(href)
					if _, dup := byKey[key]; dup {
						continue
					}

					title := entry.Abbr
					if title == "" {
						title = bookmarkName
					}

					byKey[key] = &domain.SiteEntry{
						Location: href,
						Title:    title,
						Tags:     []string{domain.TagBookmark, SourceTag},
					}
				}
			}
		}
	}

	if len(byKey) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in config")
	}

	bookmarks := make([]*domain.SiteEntry, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		bookmarks = append(bookmarks, byKey[key])
	}
	return bookmarks, nil
}
