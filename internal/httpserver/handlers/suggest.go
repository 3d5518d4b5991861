package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/search"
)

type suggestResponse struct {
	Suggestions []suggestionResponse `json:"suggestions"`
	Suffix      string               `json:"suffix"`
}

// Suggest computes a suggestion list without touching window state.
// Live search is fetched inline and bounded by the request context.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		selected := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("selected")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "selected must be a non-negative integer")
				return
			}
			selected = n
		}

		snap := d.MemoryIndex.Snapshot()
		if d.Fetcher != nil && d.Engine.Settings().SearchSuggestions && search.ShouldFetch(query) {
			results, err := d.Fetcher.Fetch(r.Context(), query)
			if err != nil {
				d.Logger.Debug("live search unavailable",
					logger.String("query", query),
					logger.Error(err))
			}
			snap.SearchResults = results
		}

		list := d.Engine.Suggest(query, snap)
		d.Logger.Debug("suggest request",
			logger.String("query", query),
			logger.Int("results", len(list)))

		writeJSON(w, http.StatusOK, suggestResponse{
			Suggestions: toSuggestionResponses(list, d.SearchURL),
			Suffix:      domain.AutocompleteSuffix(list, selected, query),
		})
	}
}
