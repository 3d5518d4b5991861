package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/mw"
)

func init() { Register(registerWindows) }

func registerWindows(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/windows", handlers.OpenWindow(d))
	r.Route("/windows/{id}", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Get("/", handlers.GetWindow(d))
		r.Get("/stream", handlers.WindowStream(d))
		r.Delete("/", handlers.CloseWindow(d))
		r.Post("/input", handlers.WindowInput(d))
		r.Post("/events", handlers.WindowEvent(d))
		r.Post("/select", handlers.WindowSelect(d))
	})
}
