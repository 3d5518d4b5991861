package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	redisstore "github.com/MrSnakeDoc/omnibox/internal/store/redis"
)

// DefaultHistoryRetention is how long a history entry survives without a visit
const DefaultHistoryRetention = 90 * 24 * time.Hour

// GarbageCollector expires history not visited within the retention window,
// from the index and from Redis.
type GarbageCollector struct {
	*job
	store     *redisstore.Store // nil means memory only
	index     *index.MemoryIndex
	retention time.Duration
	now       func() time.Time
}

func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *GarbageCollector {
	if retention <= 0 {
		retention = DefaultHistoryRetention
	}
	return &GarbageCollector{
		job:       newJob("garbage collection", interval, nil, log),
		store:     store,
		index:     idx,
		retention: retention,
		now:       time.Now,
	}
}

// Start collects once, then on every interval.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed", logger.Error(err))
	}
	gc.loop(ctx, gc.Collect)
	return nil
}

// Collect removes entries last visited before the cutoff, and entries
// never visited at all.
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	now := gc.now()
	cutoff := now.Add(-gc.retention)

	expired := make([]string, 0)
	for _, site := range gc.index.GetAllHistory() {
		if site.HasLastAccessed() && site.LastAccessedTime.After(cutoff) {
			continue
		}
		gc.index.DeleteHistory(site.Location)
		expired = append(expired, site.Location)
	}

	if len(expired) == 0 {
		gc.logger.Debug("no history to garbage collect")
		return nil
	}

	if gc.store != nil {
		for _, location := range expired {
			if err := gc.store.DeleteSite(ctx, location); err != nil {
				gc.logger.Warn("failed to delete site from redis",
					logger.String("location", location),
					logger.Error(err))
			}
		}
	}

	gc.logger.Info("garbage collection completed",
		logger.Int("history_deleted", len(expired)),
		logger.Int("history_left", gc.index.HistoryCount()))
	return nil
}
