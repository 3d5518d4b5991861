package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	redisstore "github.com/MrSnakeDoc/omnibox/internal/store/redis"
)

// RedisSyncer loads the persisted history into the memory index on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads history from Redis and updates memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing history from redis to memory")

	sites, err := rs.store.GetAllSites(ctx)
	if err != nil {
		return err
	}

	if len(sites) == 0 {
		rs.logger.Info("no history found in redis")
		return nil
	}

	rs.index.UpdateHistory(sites)

	rs.logger.Info("synced history from redis",
		logger.Int("count", len(sites)))

	return nil
}
