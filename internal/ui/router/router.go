// Package router sets up HTTP routes for the server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/recordkeep/internal/api"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	recordsFeature "github.com/leapstack-labs/recordkeep/internal/ui/features/records"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
	"github.com/leapstack-labs/recordkeep/internal/ui/resources"
)

// SetupRoutes configures the JSON API, the browser UI and static assets.
func SetupRoutes(
	router chi.Router,
	coord *coordinator.Coordinator,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	if isDev {
		setupReload(router)
	}

	router.Handle(resources.Prefix+"*", resources.Handler())

	api.SetupRoutes(router, coord, logger)

	return recordsFeature.SetupRoutes(router, coord, sessionStore, notify, logger, isDev)
}

// setupReload serves /reload, which reloads the page once per server start
// and again whenever /hotreload is hit.
func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
