package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/internal/service"
)

// ClaimHandler handles donor self-service and the admin sweep/shipping
// endpoints.
type ClaimHandler struct {
	svc service.ClaimService
}

// NewClaimHandler creates a ClaimHandler.
func NewClaimHandler(svc service.ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

// Get handles GET /api/claims/{id}?code=.... A missing claim and a bad code
// both 404; the endpoint never confirms a claim exists.
func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Get(r.Context(), r.PathValue("id"), r.URL.Query().Get("code"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		slog.Error("claim get failed", "error", err, "claim_id", r.PathValue("id"))
		writeError(w, http.StatusInternalServerError, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type claimActionRequest struct {
	AuthCode string `json:"auth_code"`
}

// Accept handles POST /api/claims/{id}/accept.
func (h *ClaimHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.selfService(w, r, h.svc.Accept)
}

// Decline handles POST /api/claims/{id}/decline.
func (h *ClaimHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.selfService(w, r, h.svc.Decline)
}

func (h *ClaimHandler) selfService(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error)) {
	id := r.PathValue("id")

	var req claimActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	claim, err := action(r.Context(), id, req.AuthCode)
	if err != nil {
		var invalidRegion *service.InvalidRegionError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found")
		case errors.Is(err, service.ErrNoPendingClaim):
			writeError(w, http.StatusConflict, "nothing_pending")
		case errors.As(err, &invalidRegion):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "invalid_region",
				"message": invalidRegion.Error(),
			})
		default:
			slog.Error("claim action failed", "error", err, "claim_id", id)
			writeError(w, http.StatusInternalServerError, "action_failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "claim": claim})
}

type sweepRequest struct {
	EventID string `json:"event_id"`
}

// Sweep handles POST /api/admin/claims/sweep. It returns the auto-declined
// claims; redraws are the caller's next step.
func (h *ClaimHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
	}

	claims, err := h.svc.SweepExpired(r.Context(), req.EventID)
	if err != nil {
		slog.Error("sweep failed", "error", err, "event_id", req.EventID)
		writeError(w, http.StatusInternalServerError, "sweep_failed")
		return
	}
	if claims == nil {
		claims = []*model.PrizeClaim{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

// Shipped handles POST /api/admin/claims/{id}/shipped.
func (h *ClaimHandler) Shipped(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	claim, err := h.svc.MarkShipped(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found")
		case errors.Is(err, service.ErrNoPendingClaim):
			writeError(w, http.StatusConflict, "nothing_accepted")
		default:
			slog.Error("mark shipped failed", "error", err, "claim_id", id)
			writeError(w, http.StatusInternalServerError, "ship_failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "claim": claim})
}
