package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/recordkeep/internal/coordinator"
)

// Response messages.
const (
	MsgRequired     = "Name and email are required"
	MsgInvalidBody  = "Invalid request body"
	MsgUpdated      = "Record updated successfully"
	MsgDeleted      = "Record deleted successfully"
	MsgNotFound     = "Record not found"
	MsgInternalFail = "Internal server error"
)

// RecordInput is the request body for create and update.
type RecordInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Message is the body of every non-record response.
type Message struct {
	Message string `json:"message"`
}

// Handlers provides HTTP handlers for the records API.
type Handlers struct {
	coord  *coordinator.Coordinator
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(coord *coordinator.Coordinator, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{coord: coord, logger: logger}
}

// ListRecords returns both stores' lists keyed by store key.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	snap := h.coord.ListAll(r.Context())
	h.writeJSON(w, http.StatusOK, snap.Lists())
}

// CreateRecord appends a new record to both stores.
func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var in RecordInput
	if !h.decode(w, r, &in) {
		return
	}

	res, err := h.coord.Create(r.Context(), in.Name, in.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	setDegraded(w, res)
	h.writeJSON(w, http.StatusCreated, res.Record)
}

// UpdateRecord replaces name and email of the record with the URL id.
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in RecordInput
	if !h.decode(w, r, &in) {
		return
	}

	res, err := h.coord.Update(r.Context(), id, in.Name, in.Email)
	setDegraded(w, res)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Message{Message: MsgUpdated})
}

// DeleteRecord removes every record with the URL id.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.coord.Delete(r.Context(), id)
	setDegraded(w, res)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Message{Message: MsgDeleted})
}

// Drift reports how the two stores disagree.
func (h *Handlers) Drift(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.coord.Drift(r.Context()))
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.DebugContext(r.Context(), "invalid request body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, Message{Message: MsgInvalidBody})
		return false
	}
	return true
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coordinator.ErrValidation):
		h.writeJSON(w, http.StatusBadRequest, Message{Message: MsgRequired})
	case errors.Is(err, coordinator.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, Message{Message: MsgNotFound})
	default:
		h.logger.Error("unexpected error", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, Message{Message: MsgInternalFail})
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func setDegraded(w http.ResponseWriter, res coordinator.Result) {
	if keys := res.DegradedStores(); len(keys) > 0 {
		w.Header().Set(DegradedHeader, strings.Join(keys, ","))
	}
}
