package records

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
)

// SetupRoutes configures routes for the records feature.
func SetupRoutes(
	router chi.Router,
	coord *coordinator.Coordinator,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(coord, sessionStore, notify, logger, isDev)

	router.Get("/", handlers.RecordsPage)
	router.Route("/records", func(r chi.Router) {
		r.Get("/updates", handlers.RecordsUpdates)
		r.Post("/", handlers.CreateRecord)
		r.Post("/view/{key}", handlers.SelectView)
		r.Get("/{id}/edit", handlers.EditRecord)
		r.Put("/{id}", handlers.UpdateRecord)
		r.Delete("/{id}", handlers.DeleteRecord)
	})

	return nil
}
