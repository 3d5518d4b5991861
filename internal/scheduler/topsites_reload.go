package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/sources/homepage"
)

// TopSitesReloader keeps the static top sites list in sync with a
// Homepage services.yaml.
type TopSitesReloader struct {
	*job
	loader *homepage.ServicesLoader
	index  *index.MemoryIndex
}

func NewTopSitesReloader(
	servicesFile string,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *TopSitesReloader {
	return &TopSitesReloader{
		job:    newJob("top sites reload", interval, manualTrigger, log),
		loader: homepage.NewServicesLoader(servicesFile),
		index:  idx,
	}
}

// Start loads the list once and fails when that is impossible, since an
// empty list would silently hide the source.
func (tr *TopSitesReloader) Start(ctx context.Context) error {
	if err := tr.Reload(ctx); err != nil {
		return fmt.Errorf("initial top sites reload failed: %w", err)
	}
	tr.loop(ctx, tr.Reload)
	return nil
}

// Reload replaces the list. On failure the current list is kept.
func (tr *TopSitesReloader) Reload(_ context.Context) error {
	config, err := tr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load top sites: %w", err)
	}
	sites, err := homepage.MapTopSites(config)
	if err != nil {
		return fmt.Errorf("failed to map top sites: %w", err)
	}

	tr.index.UpdateTopSites(sites)
	tr.logger.Info("loaded top sites",
		logger.String("file", tr.loader.Path()),
		logger.Int("count", len(sites)))
	return nil
}
