package records

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/ui/features/records/components"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
)

const (
	sessionName = "recordkeep"
	viewKey     = "view"
)

// Handlers provides HTTP handlers for the records feature.
type Handlers struct {
	coord        *coordinator.Coordinator
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(coord *coordinator.Coordinator, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		coord:        coord,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		isDev:        isDev,
	}
}

// RecordsPage renders the full page with both lists server-rendered.
func (h *Handlers) RecordsPage(w http.ResponseWriter, r *http.Request) {
	view := h.currentView(r)
	if err := components.Page(view).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RecordsUpdates is the long-lived SSE endpoint. It re-renders the lists
// whenever the notifier fires. Initial content comes from RecordsPage.
func (h *Handlers) RecordsUpdates(w http.ResponseWriter, r *http.Request) {
	active := h.activeView(r)
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			h.logger.DebugContext(ctx, "pushing records update", "source", ev.Source, "op", ev.Op, "id", ev.ID)
			view := buildView(h.coord.ListAll(ctx), active, h.isDev)
			if err := sse.PatchElementTempl(components.App(view)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// CreateRecord creates a record from the create form signals.
func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var signals CreateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sse := datastar.NewSSE(w, r)

	res, err := h.coord.Create(r.Context(), signals.Name, signals.Email)
	if err != nil {
		h.sendMessage(sse, components.MessageError, "Failed to create record: "+userMessage(err))
		return
	}

	h.sendMessage(sse, components.MessageSuccess, withDegraded("Record created successfully!", res))
	_ = sse.MarshalAndPatchSignals(CreateSignals{})
	h.sendApp(sse, r)
}

// EditRecord loads a record from the active list into the edit form.
func (h *Handlers) EditRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	active := h.activeView(r)
	sse := datastar.NewSSE(w, r)

	view := buildView(h.coord.ListAll(r.Context()), active, h.isDev)
	for _, s := range view.Stores {
		if !s.Active {
			continue
		}
		if i := s.Records.IndexOf(id); i >= 0 {
			rec := s.Records[i]
			if err := sse.MarshalAndPatchSignals(EditSignals{EditID: rec.ID, EditName: rec.Name, EditEmail: rec.Email}); err != nil {
				_ = sse.ConsoleError(err)
			}
			return
		}
	}
	h.sendMessage(sse, components.MessageError, "Record not found")
}

// UpdateRecord applies the edit form signals to the record in the URL.
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var signals EditSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sse := datastar.NewSSE(w, r)

	res, err := h.coord.Update(r.Context(), id, signals.EditName, signals.EditEmail)
	if err != nil {
		h.sendMessage(sse, components.MessageError, "Failed to update record: "+userMessage(err))
		return
	}

	h.sendMessage(sse, components.MessageSuccess, withDegraded("Record updated successfully!", res))
	_ = sse.MarshalAndPatchSignals(EditSignals{})
	h.sendApp(sse, r)
}

// DeleteRecord deletes the record in the URL from both stores.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sse := datastar.NewSSE(w, r)

	res, err := h.coord.Delete(r.Context(), id)
	if err != nil {
		h.sendMessage(sse, components.MessageError, "Failed to delete record: "+userMessage(err))
		return
	}

	h.sendMessage(sse, components.MessageSuccess, withDegraded(fmt.Sprintf("Record %s deleted successfully!", id), res))
	h.sendApp(sse, r)
}

// SelectView stores which list drives the edit controls.
func (h *Handlers) SelectView(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	snap := h.coord.ListAll(r.Context())
	if !hasKey(snap, key) {
		http.Error(w, "unknown store "+key, http.StatusBadRequest)
		return
	}

	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values[viewKey] = key
	if err := session.Save(r, w); err != nil {
		h.logger.Error("failed to save session", "error", err)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.App(buildView(snap, key, h.isDev))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) currentView(r *http.Request) components.View {
	return buildView(h.coord.ListAll(r.Context()), h.activeView(r), h.isDev)
}

// activeView returns the store key saved in the session, or "".
func (h *Handlers) activeView(r *http.Request) string {
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return ""
	}
	key, _ := session.Values[viewKey].(string)
	return key
}

func (h *Handlers) sendApp(sse *datastar.ServerSentEventGenerator, r *http.Request) {
	if err := sse.PatchElementTempl(components.App(h.currentView(r))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) sendMessage(sse *datastar.ServerSentEventGenerator, kind components.MessageKind, text string) {
	if err := sse.PatchElementTempl(components.Message(kind, text)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrValidation):
		return "Name and email are required"
	case errors.Is(err, coordinator.ErrNotFound):
		return "Record not found"
	default:
		return err.Error()
	}
}

func withDegraded(msg string, res coordinator.Result) string {
	if keys := res.DegradedStores(); len(keys) > 0 {
		return msg + " (degraded: " + strings.Join(keys, ", ") + ")"
	}
	return msg
}
