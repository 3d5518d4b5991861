package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

type framesRequest struct {
	ActiveFrameKey string              `json:"activeFrameKey"`
	Frames         []domain.FrameEntry `json:"frames"`
}

// SetFrames replaces the set of open tabs
func SetFrames(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req framesRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		d.MemoryIndex.SetFrames(req.Frames, req.ActiveFrameKey)
		d.Logger.Debug("frames updated",
			logger.Int("frames", len(req.Frames)),
			logger.String("active", req.ActiveFrameKey))

		w.WriteHeader(http.StatusNoContent)
	}
}
