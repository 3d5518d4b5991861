package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/mw"
)

func init() { Register(registerVisits) }

func registerVisits(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Post("/visits", handlers.RecordVisit(d))
	guarded.Delete("/visits", handlers.DeleteVisit(d))
	guarded.Put("/frames", handlers.SetFrames(d))
}
