package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

// Readyz reports whether the service can persist history. Without a store
// the service runs memory only and is always ready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Store == nil {
			writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Redis: "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Redis: "unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Redis: "ok"})
	}
}
