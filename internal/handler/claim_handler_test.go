package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charitydrive/backend/internal/model"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/internal/service"
)

type mockClaimService struct {
	getFunc         func(ctx context.Context, claimID, authCode string) (*service.ClaimView, error)
	acceptFunc      func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error)
	declineFunc     func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error)
	sweepFunc       func(ctx context.Context, eventID string) ([]*model.PrizeClaim, error)
	markShippedFunc func(ctx context.Context, claimID string) (*model.PrizeClaim, error)
}

func (m *mockClaimService) Get(ctx context.Context, claimID, authCode string) (*service.ClaimView, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, claimID, authCode)
	}
	return nil, repository.ErrNotFound
}

func (m *mockClaimService) Accept(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
	if m.acceptFunc != nil {
		return m.acceptFunc(ctx, claimID, authCode)
	}
	return nil, repository.ErrNotFound
}

func (m *mockClaimService) Decline(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
	if m.declineFunc != nil {
		return m.declineFunc(ctx, claimID, authCode)
	}
	return nil, repository.ErrNotFound
}

func (m *mockClaimService) SweepExpired(ctx context.Context, eventID string) ([]*model.PrizeClaim, error) {
	if m.sweepFunc != nil {
		return m.sweepFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockClaimService) MarkShipped(ctx context.Context, claimID string) (*model.PrizeClaim, error) {
	if m.markShippedFunc != nil {
		return m.markShippedFunc(ctx, claimID)
	}
	return nil, repository.ErrNotFound
}

func TestClaimHandler_Get(t *testing.T) {
	mock := &mockClaimService{
		getFunc: func(ctx context.Context, claimID, authCode string) (*service.ClaimView, error) {
			if claimID != "c1" || authCode != "secret" {
				t.Errorf("unexpected args: %s %s", claimID, authCode)
			}
			return &service.ClaimView{
				Claim: &model.PrizeClaim{ID: "c1", PendingCount: 1},
				Prize: &model.Prize{ID: "pz1"},
				State: model.LifecycleWinnerNotified,
			}, nil
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest("GET", "/api/claims/c1?code=secret", nil)
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp service.ClaimView
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != model.LifecycleWinnerNotified {
		t.Errorf("expected winner_notified, got %s", resp.State)
	}
}

func TestClaimHandler_Get_NotFound(t *testing.T) {
	h := NewClaimHandler(&mockClaimService{})

	req := httptest.NewRequest("GET", "/api/claims/c1?code=wrong", nil)
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestClaimHandler_Accept(t *testing.T) {
	mock := &mockClaimService{
		acceptFunc: func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
			if authCode != "secret" {
				t.Errorf("expected auth code from body, got %q", authCode)
			}
			return &model.PrizeClaim{ID: claimID, AcceptCount: 1}, nil
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/claims/c1/accept", strings.NewReader(`{"auth_code":"secret"}`))
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Accept(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClaimHandler_Accept_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad code", repository.ErrNotFound, http.StatusNotFound},
		{"nothing pending", service.ErrNoPendingClaim, http.StatusConflict},
		{"region blocked", &service.InvalidRegionError{Country: "DE"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockClaimService{
				acceptFunc: func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
					return nil, tt.err
				},
			}
			h := NewClaimHandler(mock)

			req := httptest.NewRequest(http.MethodPost, "/api/claims/c1/accept", strings.NewReader(`{"auth_code":"x"}`))
			req.SetPathValue("id", "c1")
			rec := httptest.NewRecorder()
			h.Accept(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestClaimHandler_Accept_RegionMessage(t *testing.T) {
	mock := &mockClaimService{
		acceptFunc: func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
			return nil, &service.InvalidRegionError{
				Country: "DE", CoordinatorName: "Jordan", CoordinatorEmail: "jordan@example.org",
			}
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/claims/c1/accept", strings.NewReader(`{"auth_code":"x"}`))
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Accept(rec, req)

	if !strings.Contains(rec.Body.String(), "Jordan") {
		t.Errorf("expected coordinator contact in the body, got %s", rec.Body.String())
	}
}

func TestClaimHandler_Decline(t *testing.T) {
	mock := &mockClaimService{
		declineFunc: func(ctx context.Context, claimID, authCode string) (*model.PrizeClaim, error) {
			return &model.PrizeClaim{ID: claimID, DeclineCount: 1}, nil
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/claims/c1/decline", strings.NewReader(`{"auth_code":"secret"}`))
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Decline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClaimHandler_Sweep(t *testing.T) {
	mock := &mockClaimService{
		sweepFunc: func(ctx context.Context, eventID string) ([]*model.PrizeClaim, error) {
			if eventID != "ev1" {
				t.Errorf("expected event ev1, got %q", eventID)
			}
			return []*model.PrizeClaim{{ID: "c1", DeclineCount: 1}}, nil
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/claims/sweep", strings.NewReader(`{"event_id":"ev1"}`))
	rec := httptest.NewRecorder()
	h.Sweep(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Claims []*model.PrizeClaim `json:"claims"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Claims) != 1 {
		t.Errorf("expected 1 swept claim, got %+v", resp.Claims)
	}
}

func TestClaimHandler_Sweep_EmptyBody(t *testing.T) {
	mock := &mockClaimService{
		sweepFunc: func(ctx context.Context, eventID string) ([]*model.PrizeClaim, error) {
			if eventID != "" {
				t.Errorf("expected every event, got %q", eventID)
			}
			return nil, nil
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/claims/sweep", nil)
	rec := httptest.NewRecorder()
	h.Sweep(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"claims":[]`) {
		t.Errorf("expected an empty claims array, got %s", rec.Body.String())
	}
}

func TestClaimHandler_Shipped(t *testing.T) {
	mock := &mockClaimService{
		markShippedFunc: func(ctx context.Context, claimID string) (*model.PrizeClaim, error) {
			return &model.PrizeClaim{ID: claimID, AcceptCount: 1, ShippingState: model.ShippingShipped}, nil
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/claims/c1/shipped", nil)
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Shipped(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClaimHandler_Shipped_NotAccepted(t *testing.T) {
	mock := &mockClaimService{
		markShippedFunc: func(ctx context.Context, claimID string) (*model.PrizeClaim, error) {
			return nil, service.ErrNoPendingClaim
		},
	}
	h := NewClaimHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/claims/c1/shipped", nil)
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()
	h.Shipped(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}
