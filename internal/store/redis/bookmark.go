package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
)

// ReplaceBookmarks stores the current bookmark set, dropping bookmarks that
// are no longer present. Bookmarks have no TTL: the file is the source of
// truth and Redis only bridges restarts where the file cannot be read.
func (s *Store) ReplaceBookmarks(ctx context.Context, bookmarks []*domain.SiteEntry) error {
	current := make(map[string]bool, len(bookmarks))
	pipe := s.client.TxPipeline()

	for _, bookmark := range bookmarks {
		data, err := json.Marshal(bookmark)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", bookmark.Location, err)
		}
		key := domain.LocationKey(bookmark.Location)
		current[key] = true
		pipe.Set(ctx, BookmarkKey(bookmark.Location), data, 0)
		pipe.SAdd(ctx, KeyAllBookmarks, key)
	}

	previous, err := s.client.SMembers(ctx, KeyAllBookmarks).Result()
	if err != nil {
		return fmt.Errorf("failed to get bookmark index: %w", err)
	}
	for _, key := range previous {
		if current[key] {
			continue
		}
		pipe.Del(ctx, BookmarkKey(key))
		pipe.SRem(ctx, KeyAllBookmarks, key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}

	return nil
}

// GetAllBookmarks retrieves all bookmarks from Redis
func (s *Store) GetAllBookmarks(ctx context.Context) ([]*domain.SiteEntry, error) {
	keys, err := s.client.SMembers(ctx, KeyAllBookmarks).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark index: %w", err)
	}

	if len(keys) == 0 {
		return []*domain.SiteEntry{}, nil
	}

	redisKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		redisKeys = append(redisKeys, BookmarkKey(key))
	}

	values, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	// Bookmarks are replaced wholesale, so missing values are not pruned here
	bookmarks, _ := decodeSites(keys, values)
	return bookmarks, nil
}
