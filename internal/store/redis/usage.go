package redis

import (
	"context"
	"fmt"
)

// HistorySize returns how many history entries are persisted. Entries whose
// TTL expired are counted until the next GetAllSites prunes the index.
func (s *Store) HistorySize(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, KeyAllHistory).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

