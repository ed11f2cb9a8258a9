// Package httpapi serves the dashboard views and credit toggles over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the routes and middleware of the dashboard API.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)

		r.Route("/students", func(r chi.Router) {
			r.Get("/", h.ListStudents)
			r.Get("/{key}", h.GetStudentHistory)
			r.Get("/{key}/feedback", h.GetFeedback)
		})

		r.Route("/credits", func(r chi.Router) {
			r.Get("/", h.ListCredits)
			r.Put("/{student}/{goal}", h.SetCredit)
			r.Delete("/{student}/{goal}", h.UnsetCredit)
		})

		r.Post("/reload", h.Reload)
	})

	return r
}
