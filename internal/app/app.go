package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/omnibox/internal/config"
	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/redis"
	"github.com/MrSnakeDoc/omnibox/internal/scheduler"
	"github.com/MrSnakeDoc/omnibox/internal/search"
	"github.com/MrSnakeDoc/omnibox/internal/session"
	redisstore "github.com/MrSnakeDoc/omnibox/internal/store/redis"
	"github.com/MrSnakeDoc/omnibox/internal/utils"
	"github.com/MrSnakeDoc/omnibox/internal/version"
)

// service is a background job started with the server.
type service interface {
	Start(ctx context.Context) error
	Stop()
}

type worker struct {
	name    string
	service service
	fields  []logger.Field
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	store       *redisstore.Store
	memIndex    *index.MemoryIndex
	fetcher     *search.Fetcher
	sessions    *session.Manager
	workers     []worker
}

// New wires every component. It fails when Redis cannot be reached.
func New() (*App, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	log.Debug("configuration loaded", logger.String("config", fmt.Sprintf("%+v", cfg.Redacted())))

	redisClient, err := redis.New(context.Background(), cfg.Redis, log.With(logger.String("component", "redis")))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	memIndex := index.NewMemoryIndex()
	memIndex.SetAboutPages(cfg.AboutPages)
	store := redisstore.NewStore(redisClient, cfg.HistoryRetention)

	if err := scheduler.NewRedisSyncer(store, memIndex, log).Sync(context.Background()); err != nil {
		log.Warn("failed to sync history from redis on startup, starting empty", logger.Error(err))
	}

	engine := domain.NewEngine(cfg.Suggestions, time.Now)
	sessions := session.NewManager(engine, memIndex, nil, log.With(logger.String("component", "session")))

	a := &App{
		cfg:         cfg,
		logger:      log,
		redisClient: redisClient,
		store:       store,
		memIndex:    memIndex,
		sessions:    sessions,
	}

	// Live search results flow back into the window that asked for them
	if cfg.Suggestions.SearchSuggestions {
		a.fetcher = search.NewFetcher(search.Options{
			AutocompleteURL: cfg.SearchAutocompleteURL,
			Debounce:        cfg.SearchDebounce,
			Timeout:         cfg.SearchTimeout,
			RetryMax:        cfg.SearchRetryMax,
			RatePerSecond:   cfg.SearchRatePerSecond,
			Burst:           cfg.SearchBurst,
			CacheTTL:        cfg.SearchCacheTTL,
		}, store, log.With(logger.String("component", "search")), func(r search.Result) {
			sessions.ApplySearch(r.Key, r.Seq, r.Input, r.Results)
		})
		sessions.SetSearcher(a.fetcher)
	} else {
		log.Info("search suggestions disabled")
	}

	var topSitesTrigger, bookmarkTrigger chan struct{}

	if cfg.ServicesFile != "" {
		topSitesTrigger = make(chan struct{}, 1)
		a.workers = append(a.workers, worker{
			name:    "top sites reloader",
			service: scheduler.NewTopSitesReloader(cfg.ServicesFile, memIndex, log, cfg.ReloadInterval, topSitesTrigger),
			fields:  []logger.Field{logger.String("file", cfg.ServicesFile), logger.Duration("interval", cfg.ReloadInterval)},
		})
	} else {
		log.Info("services file not configured, top sites disabled")
	}

	if cfg.BookmarkFile != "" {
		bookmarkTrigger = make(chan struct{}, 1)
		a.workers = append(a.workers, worker{
			name:    "bookmark reloader",
			service: scheduler.NewBookmarkReloader(cfg.BookmarkFile, store, memIndex, log, cfg.ReloadInterval, bookmarkTrigger),
			fields:  []logger.Field{logger.String("file", cfg.BookmarkFile), logger.Duration("interval", cfg.ReloadInterval)},
		})
	} else {
		log.Info("bookmark file not configured, bookmark suggestions disabled")
	}

	a.workers = append(a.workers, worker{
		name:    "garbage collector",
		service: scheduler.NewGarbageCollector(store, memIndex, log, cfg.GCInterval, cfg.HistoryRetention),
		fields:  []logger.Field{logger.Duration("interval", cfg.GCInterval), logger.Duration("retention", cfg.HistoryRetention)},
	})

	a.server = httpserver.New(cfg, log, deps.Deps{
		Logger:                log,
		StartTime:             time.Now(),
		Version:               version.Version,
		Commit:                version.Commit,
		BuildDate:             version.BuildDate,
		GoVersion:             version.GoVersion,
		TimeNow:               time.Now,
		AllowedHosts:          cfg.AllowedHosts,
		AllowedCIDRS:          cfg.AllowedCIDRS,
		AllowedOrigins:        cfg.AllowedOrigins,
		TrustProxy:            cfg.TrustProxy,
		RateLimit:             cfg.RateLimit,
		Store:                 store,
		MemoryIndex:           memIndex,
		Engine:                engine,
		Sessions:              sessions,
		Fetcher:               a.fetcher,
		SearchURL:             cfg.SearchURL,
		TopSitesReloadTrigger: topSitesTrigger,
		BookmarkReloadTrigger: bookmarkTrigger,
	})

	return a, nil
}

// Run starts the background workers and the server, and blocks until
// SIGINT/SIGTERM or a server error.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s %s on %s", version.Name, version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i, w := range a.workers {
		if err := w.service.Start(ctx); err != nil {
			a.stopWorkers(a.workers[:i])
			return fmt.Errorf("failed to start %s: %w", w.name, err)
		}
		a.logger.Info(w.name+" started", w.fields...)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
		a.logger.Error("http server stopped unexpectedly", logger.Error(runErr))
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		a.logger.Infof("✅ %s stopped cleanly", version.Name)
	}
	return runErr
}

func (a *App) shutdown() error {
	a.stopWorkers(a.workers)

	// Pending live searches would deliver into a stopped server
	if a.fetcher != nil {
		a.fetcher.Close()
	}

	// Hijacked stream connections are not tracked by Shutdown
	a.sessions.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	err := a.server.Stop(ctx)
	if err != nil {
		err = fmt.Errorf("failed to stop server: %w", err)
	}

	a.flushHistory()

	if utils.CloseWithLog(a.redisClient, a.logger, "redis") {
		a.logger.Info("✅ Redis closed cleanly")
	}
	_ = a.logger.Sync()
	return err
}

// stopWorkers stops in reverse start order.
func (a *App) stopWorkers(workers []worker) {
	for _, w := range slices.Backward(workers) {
		w.service.Stop()
		a.logger.Debug(w.name + " stopped")
	}
}

// flushHistory persists the in-memory history, catching visits whose
// best-effort save failed while Redis was unreachable.
func (a *App) flushHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	sites := a.memIndex.GetAllHistory()
	if len(sites) == 0 {
		return
	}
	if err := a.store.SaveSitesMany(ctx, sites); err != nil {
		a.logger.Warn("failed to flush history to redis", logger.Error(err))
		return
	}
	a.logger.Info("history flushed to redis", logger.Int("count", len(sites)))
}
