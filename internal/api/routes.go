// Package api serves the JSON REST interface over the record stores.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/recordkeep/internal/coordinator"
)

// DegradedHeader lists the store keys whose load or save failed during a
// mutation. It is absent when every store succeeded.
const DegradedHeader = "X-Recordkeep-Degraded"

// SetupRoutes mounts the record endpoints under /api/records.
func SetupRoutes(router chi.Router, coord *coordinator.Coordinator, logger *slog.Logger) {
	handlers := NewHandlers(coord, logger)

	router.Route("/api/records", func(r chi.Router) {
		r.Get("/", handlers.ListRecords)
		r.Post("/", handlers.CreateRecord)
		r.Get("/drift", handlers.Drift)
		r.Put("/{id}", handlers.UpdateRecord)
		r.Delete("/{id}", handlers.DeleteRecord)
	})
}
