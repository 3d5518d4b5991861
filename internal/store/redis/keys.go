package redis

import (
	"strings"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

const (
	// KeyPrefixHistory is the prefix for history entry keys
	KeyPrefixHistory = "omnibox:history:"
	// KeyAllHistory is the key for the set of all history locations
	KeyAllHistory = "omnibox:history-index"
	// KeyPrefixBookmark is the prefix for bookmark keys
	KeyPrefixBookmark = "omnibox:bookmark:"
	// KeyAllBookmarks is the key for the set of all bookmark locations
	KeyAllBookmarks = "omnibox:bookmark-index"
	// KeyPrefixSearch is the prefix for cached live search results
	KeyPrefixSearch = "omnibox:search:"
)

// HistoryKey returns the Redis key for a history entry
func HistoryKey(location string) string {
	return KeyPrefixHistory + domain.LocationKey(location)
}

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(location string) string {
	return KeyPrefixBookmark + domain.LocationKey(location)
}

// SearchKey returns the Redis key for cached search results of a query.
// Case is kept: providers answer "Brave" and "brave" differently.
func SearchKey(query string) string {
	return KeyPrefixSearch + strings.TrimSpace(query)
}

