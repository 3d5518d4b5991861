package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/mw"
)

func init() { Register(registerSuggest) }

func registerSuggest(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	if d.RateLimit > 0 {
		guarded = guarded.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimit,
			RefillPerIPPerMin: d.RateLimit,
			MaxEntries:        10000,
			SweepInterval:     time.Minute,
			IdleTTL:           15 * time.Minute,
			TrustProxy:        d.TrustProxy,
		}))
	}
	guarded.Get("/suggest", handlers.Suggest(d))
}
