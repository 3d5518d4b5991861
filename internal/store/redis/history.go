package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultHistoryTTL is the default TTL for history entries (90 days)
	DefaultHistoryTTL = 90 * 24 * time.Hour
	// DefaultSearchTTL is the default TTL for cached search results (10 minutes)
	DefaultSearchTTL = 10 * time.Minute
)

// Store handles Redis persistence of history, bookmarks and search results
type Store struct {
	client     *redis.Client
	historyTTL time.Duration
}

// NewStore creates a new Redis store. A zero historyTTL uses DefaultHistoryTTL.
func NewStore(client *redis.Client, historyTTL time.Duration) *Store {
	if historyTTL <= 0 {
		historyTTL = DefaultHistoryTTL
	}
	return &Store{
		client:     client,
		historyTTL: historyTTL,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveSite stores a history entry. Virtual entries are never persisted.
func (s *Store) SaveSite(ctx context.Context, site *domain.SiteEntry) error {
	if site.Virtual {
		return nil
	}
	data, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("failed to marshal site: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, HistoryKey(site.Location), data, s.historyTTL)
	pipe.SAdd(ctx, KeyAllHistory, domain.LocationKey(site.Location))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save site: %w", err)
	}

	return nil
}

// GetAllSites retrieves every history entry in one MGET. Index members
// whose entry expired are removed from the index on the way.
func (s *Store) GetAllSites(ctx context.Context) ([]*domain.SiteEntry, error) {
	keys, err := s.client.SMembers(ctx, KeyAllHistory).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history index: %w", err)
	}

	if len(keys) == 0 {
		return []*domain.SiteEntry{}, nil
	}

	redisKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		redisKeys = append(redisKeys, HistoryKey(key))
	}

	values, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	sites, expired := decodeSites(keys, values)
	if len(expired) > 0 {
		_ = s.client.SRem(ctx, KeyAllHistory, expired...).Err()
	}
	return sites, nil
}

// decodeSites pairs MGET values with their index members. Members with no
// value are returned as expired; undecodable values are skipped.
func decodeSites(keys []string, values []any) ([]*domain.SiteEntry, []any) {
	sites := make([]*domain.SiteEntry, 0, len(values))
	var expired []any
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			if i < len(keys) {
				expired = append(expired, keys[i])
			}
			continue
		}
		var site domain.SiteEntry
		if err := json.Unmarshal([]byte(raw), &site); err != nil {
			continue
		}
		sites = append(sites, &site)
	}
	return sites, expired
}

// DeleteSite removes a history entry
func (s *Store) DeleteSite(ctx context.Context, location string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, HistoryKey(location))
	pipe.SRem(ctx, KeyAllHistory, domain.LocationKey(location))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return nil
}

// SaveSitesMany stores many history entries in one round trip.
// Virtual entries are skipped.
func (s *Store) SaveSitesMany(ctx context.Context, sites []*domain.SiteEntry) error {
	pipe := s.client.Pipeline()

	for _, site := range sites {
		if site.Virtual {
			continue
		}
		data, err := json.Marshal(site)
		if err != nil {
			return fmt.Errorf("failed to marshal site %s: %w", site.Location, err)
		}

		pipe.Set(ctx, HistoryKey(site.Location), data, s.historyTTL)
		pipe.SAdd(ctx, KeyAllHistory, domain.LocationKey(site.Location))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save sites: %w", err)
	}

	return nil
}
