package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

const flushTimeout = 5 * time.Second

// Reload triggers a manual reload of top sites and bookmarks.
// ?source=search-cache flushes cached live search results instead.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("source") == "search-cache" {
			flushSearchCache(d, w, r)
			return
		}

		topSitesTriggered := trigger(d, r, d.TopSitesReloadTrigger, "top sites")
		bookmarksTriggered := trigger(d, r, d.BookmarkReloadTrigger, "bookmarks")

		// Determine response based on what was triggered
		if topSitesTriggered || bookmarksTriggered {
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		} else {
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}

// trigger sends on ch without blocking. A nil channel means the source is
// disabled.
func trigger(d deps.Deps, r *http.Request, ch chan struct{}, what string) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- struct{}{}:
		d.Logger.Info("manual reload triggered via endpoint",
			logger.String("source", what),
			logger.String("remote_ip", r.RemoteAddr))
		return true
	default:
		d.Logger.Warn("reload already in progress",
			logger.String("source", what),
			logger.String("remote_ip", r.RemoteAddr))
		return false
	}
}

func flushSearchCache(d deps.Deps, w http.ResponseWriter, r *http.Request) {
	if d.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "search cache is not enabled")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), flushTimeout)
	defer cancel()

	if err := d.Store.FlushSearchCache(ctx); err != nil {
		d.Logger.Error("failed to flush search cache", logger.Error(err))
		writeError(w, http.StatusBadGateway, "failed to flush search cache")
		return
	}
	d.Logger.Info("search cache flushed via endpoint", logger.String("remote_ip", r.RemoteAddr))
	w.WriteHeader(http.StatusNoContent)
}
