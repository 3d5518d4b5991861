package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Cached search results are msgpack-encoded string arrays.

func encodeResults(results []string) ([]byte, error) {
	if results == nil {
		results = []string{}
	}
	return msgpack.Marshal(results)
}

func decodeResults(data []byte) ([]string, error) {
	var results []string
	if err := msgpack.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []string{}
	}
	return results, nil
}

// CacheSearchResults stores the live search results of a query
func (s *Store) CacheSearchResults(ctx context.Context, query string, results []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	data, err := encodeResults(results)
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}
	if err := s.client.Set(ctx, SearchKey(query), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache search results: %w", err)
	}
	return nil
}

// GetCachedSearchResults retrieves cached results. ok is false on a miss.
func (s *Store) GetCachedSearchResults(ctx context.Context, query string) (results []string, ok bool, err error) {
	data, err := s.client.Get(ctx, SearchKey(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached search results: %w", err)
	}
	results, err = decodeResults(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal search results: %w", err)
	}
	return results, true, nil
}

// FlushSearchCache removes all cached search results
func (s *Store) FlushSearchCache(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixSearch+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush search cache: %w", err)
	}
	return nil
}
