package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/charitydrive/backend/internal/repository"
)

// EventHandler serves read-only event endpoints.
type EventHandler struct {
	events repository.EventRepository
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events repository.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /api/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		slog.Error("event list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Get handles GET /api/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		slog.Error("event get failed", "error", err, "event_id", r.PathValue("id"))
		writeError(w, http.StatusInternalServerError, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, event)
}
