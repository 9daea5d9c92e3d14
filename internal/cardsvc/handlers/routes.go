package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/create", h.CreateCard)
		r.Get("/fetch", h.FetchCard)
		r.Put("/update", h.UpdateCard)
		r.Delete("/delete", h.DeleteCard)

		r.Get("/build-info", h.BuildInfo)
		r.Get("/go-version", h.GoVersion)
		r.Get("/contact-info", h.ContactInfo)
	})

	r.Get("/health/live", h.LiveHandler)
	r.Get("/health/ready", h.ReadyHandler)
}
