package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/sources/homepage"
	redisstore "github.com/MrSnakeDoc/omnibox/internal/store/redis"
)

var errNoSavedBookmarks = errors.New("no bookmarks saved in redis")

// BookmarkReloader keeps the bookmark source in sync with a Homepage
// bookmarks.yaml and mirrors it to Redis as a fallback.
type BookmarkReloader struct {
	*job
	loader *homepage.BookmarkLoader
	store  *redisstore.Store // nil disables the fallback
	index  *index.MemoryIndex
}

func NewBookmarkReloader(
	bookmarkFile string,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *BookmarkReloader {
	return &BookmarkReloader{
		job:    newJob("bookmark reload", interval, manualTrigger, log),
		loader: homepage.NewBookmarkLoader(bookmarkFile),
		store:  store,
		index:  idx,
	}
}

// Start loads bookmarks once, falling back to the copy saved in Redis when
// the file cannot be read, then reloads periodically.
func (br *BookmarkReloader) Start(ctx context.Context) error {
	if err := br.Reload(ctx); err != nil {
		if restoreErr := br.restore(ctx); restoreErr != nil {
			return fmt.Errorf("initial bookmark reload failed: %w", errors.Join(err, restoreErr))
		}
		br.logger.Warn("bookmark file unavailable, serving bookmarks from redis",
			logger.Error(err),
			logger.Int("count", br.index.BookmarkCount()))
	}
	br.loop(ctx, br.Reload)
	return nil
}

// Reload replaces the bookmarks. On failure the current ones are kept.
func (br *BookmarkReloader) Reload(ctx context.Context) error {
	config, err := br.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}
	bookmarks, err := homepage.MapBookmarks(config)
	if err != nil {
		return fmt.Errorf("failed to map bookmarks: %w", err)
	}

	previous := br.index.BookmarkCount()
	br.index.UpdateBookmarks(bookmarks)
	br.logger.Info("loaded bookmarks",
		logger.String("file", br.loader.Path()),
		logger.Int("count", len(bookmarks)),
		logger.Int("previous", previous))

	if br.store == nil {
		return nil
	}
	// The index stays authoritative when Redis is down
	if err := br.store.ReplaceBookmarks(ctx, bookmarks); err != nil {
		br.logger.Warn("failed to save bookmarks to redis", logger.Error(err))
	}
	return nil
}

func (br *BookmarkReloader) restore(ctx context.Context) error {
	if br.store == nil {
		return errNoSavedBookmarks
	}
	bookmarks, err := br.store.GetAllBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("failed to read saved bookmarks: %w", err)
	}
	if len(bookmarks) == 0 {
		return errNoSavedBookmarks
	}
	br.index.UpdateBookmarks(bookmarks)
	return nil
}
