package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		historyCount := d.MemoryIndex.HistoryCount()
		bookmarkCount := d.MemoryIndex.BookmarkCount()
		topSitesCount := d.MemoryIndex.TopSitesCount()
		frameCount := d.MemoryIndex.FrameCount()
		windowCount := 0
		if d.Sessions != nil {
			windowCount = d.Sessions.Count()
		}

		components := map[string]componentStatus{
			"history": {
				OK:     true,
				Loaded: &historyCount,
			},
			"bookmarks": {
				OK:         bookmarkCount > 0,
				Loaded:     &bookmarkCount,
				LastReload: formatReload(d.MemoryIndex.GetLastBookmarkReload()),
			},
			"top_sites": {
				OK:         topSitesCount > 0,
				Loaded:     &topSitesCount,
				LastReload: formatReload(d.MemoryIndex.GetLastTopSitesReload()),
			},
			"frames": {
				OK:     true,
				Loaded: &frameCount,
			},
			"windows": {
				OK:     true,
				Loaded: &windowCount,
			},
			"search": searchStatus(d),
			"redis":  checkRedis(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func formatReload(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

// determineMode summarizes component health. Redis down only loses
// persistence; suggestions keep working from memory.
func determineMode(components map[string]componentStatus) string {
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}
	if search, exists := components["search"]; exists && !search.OK {
		return "degraded"
	}
	return "full"
}

func searchStatus(d deps.Deps) componentStatus {
	if d.Fetcher == nil || !d.Engine.Settings().SearchSuggestions {
		return componentStatus{
			OK:   true,
			Mode: "disabled",
		}
	}
	if state := d.Fetcher.BreakerState(); state == "open" {
		return componentStatus{
			OK:     false,
			Mode:   "circuit-" + state,
			Impact: "search-suggestions-paused",
		}
	}
	return componentStatus{
		OK:   true,
		Mode: "live",
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "history-not-persisted",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "history-not-persisted",
			Error:  "timeout",
		}
	}

	status := componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "history-persisted",
	}
	if n, err := d.Store.HistorySize(ctx); err == nil {
		persisted := int(n)
		status.Loaded = &persisted
	}
	return status
}
