package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if !IsAdminFromContext(r.Context()) {
			t.Error("expected admin context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		header     string
		wantStatus int
	}{
		{"valid token", "s3cret", "Bearer s3cret", http.StatusOK},
		{"wrong token", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"not bearer", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		// An unset server token never matches, even an empty bearer value.
		{"empty configured token", "", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mw := RequireAdmin(tt.token)(okHandler(t, &called))

			req := httptest.NewRequest("POST", "/api/admin/prizes/pz1/draw", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if wantCalled := tt.wantStatus == http.StatusOK; called != wantCalled {
				t.Errorf("expected called=%v, got %v", wantCalled, called)
			}
		})
	}
}

func TestDevAuth(t *testing.T) {
	called := false
	mw := DevAuth(okHandler(t, &called))

	req := httptest.NewRequest("POST", "/api/admin/claims/sweep", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusOK {
		t.Errorf("expected pass-through, got called=%v status=%d", called, rec.Code)
	}
}

func TestIsAdminFromContext_Default(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if IsAdminFromContext(req.Context()) {
		t.Error("expected a bare context to not be admin")
	}
}
