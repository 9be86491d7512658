package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/club-fixtures/internal/domain/admin"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

type stubVerifier struct {
	token     string
	principal admin.Principal
	calls     int
}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (admin.Principal, error) {
	s.calls++
	if token != s.token {
		return admin.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	}
	return s.principal, nil
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalls  int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCalls: 1},
		{name: "allowed token", header: "bearer good-token", wantStatus: http.StatusOK, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := &stubVerifier{token: "good-token", principal: admin.Principal{Email: "coach@broadstreetrfc.co.uk"}}
			var seen admin.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = principalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/admin/overview", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAdmin(verifier, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if verifier.calls != tt.wantCalls {
				t.Fatalf("verifier calls=%d want=%d", verifier.calls, tt.wantCalls)
			}
			if tt.wantStatus == http.StatusOK && seen.Email != "coach@broadstreetrfc.co.uk" {
				t.Fatalf("principal not propagated, got %+v", seen)
			}
		})
	}
}

func TestRequireAdmin_NilVerifierIsUnavailable(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/overview", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	RequireAdmin(nil, http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "not configured", configured: "", provided: "x", wantStatus: http.StatusServiceUnavailable},
		{name: "missing", configured: "secret", provided: "", wantStatus: http.StatusUnauthorized},
		{name: "mismatch", configured: "secret", provided: "other", wantStatus: http.StatusUnauthorized},
		{name: "match", configured: "secret", provided: " secret ", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-results", nil)
			if tt.provided != "" {
				req.Header.Set(internalJobTokenHeader, tt.provided)
			}
			rec := httptest.NewRecorder()
			RequireInternalJobToken(tt.configured, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
		})
	}
}
