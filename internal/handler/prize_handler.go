package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/internal/service"
	"github.com/google/uuid"
)

// PrizeHandler handles prize listing, admin draws, and key imports.
type PrizeHandler struct {
	prizes  repository.PrizeRepository
	drawing service.DrawingService
	keys    service.KeyService
}

// NewPrizeHandler creates a PrizeHandler.
func NewPrizeHandler(prizes repository.PrizeRepository, drawing service.DrawingService, keys service.KeyService) *PrizeHandler {
	return &PrizeHandler{prizes: prizes, drawing: drawing, keys: keys}
}

// List handles GET /api/prizes?event=....
func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "event_required")
		return
	}
	prizes, err := h.prizes.ListByEvent(r.Context(), eventID)
	if err != nil {
		slog.Error("prize list failed", "error", err, "event_id", eventID)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if prizes == nil {
		prizes = []*model.Prize{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"prizes": prizes})
}

// Get handles GET /api/prizes/{id}.
func (h *PrizeHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.prizes.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		slog.Error("prize get failed", "error", err, "prize_id", r.PathValue("id"))
		writeError(w, http.StatusInternalServerError, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type prizeCreateRequest struct {
	model.Prize
}

// Create handles POST /api/admin/prizes.
func (h *PrizeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req prizeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p := req.Prize
	if p.EventID == "" || p.Name == "" {
		writeError(w, http.StatusBadRequest, "event_id_and_name_required")
		return
	}
	// The bid range survives only as data: the two bounds must agree.
	if !p.MinimumBid.Equal(p.MaximumBid) {
		writeError(w, http.StatusBadRequest, "minimum_bid_must_equal_maximum_bid")
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.State == "" {
		p.State = model.PrizePending
	}
	if p.MaxWinners < 1 {
		p.MaxWinners = 1
	}
	if err := h.prizes.Create(r.Context(), &p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "duplicate")
			return
		}
		slog.Error("prize create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, &p)
}

// Update handles PUT /api/admin/prizes/{id}. Saving a key-code prize re-pins
// max_winners to the key inventory.
func (h *PrizeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req prizeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p := req.Prize
	p.ID = id
	if !p.MinimumBid.Equal(p.MaximumBid) {
		writeError(w, http.StatusBadRequest, "minimum_bid_must_equal_maximum_bid")
		return
	}
	if err := h.prizes.Update(r.Context(), &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		slog.Error("prize update failed", "error", err, "prize_id", id)
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	if p.KeyCode {
		if n, err := h.keys.SyncMaxWinners(r.Context(), id); err != nil {
			slog.Error("max winners sync failed", "error", err, "prize_id", id)
		} else {
			p.MaxWinners = n
		}
	}
	writeJSON(w, http.StatusOK, &p)
}

type drawRequest struct {
	Seed any `json:"seed"`
}

// Draw handles POST /api/admin/prizes/{id}/draw.
func (h *PrizeHandler) Draw(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req drawRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
	}

	res, err := h.drawing.DrawPrize(r.Context(), id, req.Seed)
	if err != nil {
		writeDrawError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"winner_id": res.WinnerID,
		"sum":       res.Sum,
		"result":    res.Result,
	})
}

// DrawKeys handles POST /api/admin/prizes/{id}/draw-keys.
func (h *PrizeHandler) DrawKeys(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req drawRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
	}

	res, err := h.drawing.DrawKeys(r.Context(), id, req.Seed)
	if err != nil {
		writeDrawError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"winners": res.Winners,
	})
}

type importKeysRequest struct {
	Keys []string `json:"keys"`
}

// ImportKeys handles POST /api/admin/prizes/{id}/keys.
func (h *PrizeHandler) ImportKeys(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req importKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if len(req.Keys) == 0 {
		writeError(w, http.StatusBadRequest, "keys_required")
		return
	}

	added, err := h.keys.ImportKeys(r.Context(), id, req.Keys)
	if err != nil {
		var dup *service.DuplicateKeyError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found")
		case errors.Is(err, service.ErrNotKeyCode):
			writeError(w, http.StatusBadRequest, "not_key_code")
		case errors.As(err, &dup):
			writeJSON(w, http.StatusConflict, map[string]any{
				"success": false,
				"error":   dup.Error(),
			})
		default:
			slog.Error("key import failed", "error", err, "prize_id", id)
			writeError(w, http.StatusInternalServerError, "import_failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "added": added})
}

// writeDrawError maps the draw error taxonomy to statuses. Every member is a
// reported outcome, not a fault; the caller decides whether to retry.
func writeDrawError(w http.ResponseWriter, err error, prizeID string) {
	var (
		noEligible *service.NoEligibleDonorsError
		maxed      *service.PrizeAlreadyMaxedError
		badSeed    *service.UnhashableSeedError
		tooMany    *service.TooManyWinnersError
	)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrNotKeyCode):
		writeError(w, http.StatusBadRequest, "not_key_code")
	case errors.As(err, &badSeed):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": badSeed.Error()})
	case errors.As(err, &noEligible):
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": noEligible.Error()})
	case errors.As(err, &maxed):
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": maxed.Error()})
	case errors.As(err, &tooMany):
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": tooMany.Error()})
	default:
		slog.Error("draw failed", "error", err, "prize_id", prizeID)
		writeError(w, http.StatusInternalServerError, "draw_failed")
	}
}
