package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

type visitRequest struct {
	Location string `json:"location"`
	Title    string `json:"title"`
}

// RecordVisit counts a navigation in history. Redis persistence is best
// effort; the memory index is always updated.
func RecordVisit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req visitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Location) == "" {
			writeError(w, http.StatusBadRequest, "location is required")
			return
		}

		site := d.MemoryIndex.RecordVisit(req.Location, req.Title, d.Now())

		if d.Store != nil {
			if err := d.Store.SaveSite(r.Context(), &site); err != nil {
				d.Logger.Warn("failed to persist visit",
					logger.String("location", site.Location),
					logger.Error(err))
			}
		}

		d.Logger.Debug("visit recorded",
			logger.String("location", site.Location),
			logger.Int64("count", site.Count))

		writeJSON(w, http.StatusOK, site)
	}
}

// DeleteVisit removes a location from history
func DeleteVisit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location := strings.TrimSpace(r.URL.Query().Get("location"))
		if location == "" {
			writeError(w, http.StatusBadRequest, "location is required")
			return
		}

		if _, ok := d.MemoryIndex.GetHistory(location); !ok {
			writeError(w, http.StatusNotFound, "location not in history")
			return
		}
		d.MemoryIndex.DeleteHistory(location)

		if d.Store != nil {
			if err := d.Store.DeleteSite(r.Context(), location); err != nil {
				d.Logger.Warn("failed to delete persisted visit",
					logger.String("location", location),
					logger.Error(err))
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
