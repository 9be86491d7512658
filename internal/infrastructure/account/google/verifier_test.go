package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
	"google.golang.org/api/idtoken"
)

func tokenInfoServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("access_token") == "" {
			t.Errorf("access_token query parameter missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyToken_AccessTokenAllowed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenInfoServer(t, http.StatusOK, `{"aud":"client-1","sub":"42","email":"Coach@Broadstreet.test","email_verified":"true","expires_in":"3599"}`, &calls)
	v := NewVerifier(srv.Client(), Config{
		ClientID:      "client-1",
		AllowedEmails: []string{"coach@broadstreet.test"},
		TokenInfoURL:  srv.URL,
		CacheTTL:      time.Minute,
	}, nil)

	for range 2 {
		principal, err := v.VerifyToken(context.Background(), "ya29.access")
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		if principal.Email != "Coach@Broadstreet.test" || principal.Subject != "42" || principal.Name != principal.Email {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected cached verification, got %d calls", calls.Load())
	}
}

func TestVerifyToken_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		allowed []string
	}{
		{name: "email not on allowlist", status: http.StatusOK, body: `{"aud":"client-1","email":"fan@example.test","email_verified":"true"}`, allowed: []string{"coach@broadstreet.test"}},
		{name: "unverified email", status: http.StatusOK, body: `{"aud":"client-1","email":"coach@broadstreet.test","email_verified":"false"}`, allowed: []string{"coach@broadstreet.test"}},
		{name: "audience mismatch", status: http.StatusOK, body: `{"aud":"other","email":"coach@broadstreet.test","email_verified":"true"}`, allowed: []string{"coach@broadstreet.test"}},
		{name: "token rejected", status: http.StatusBadRequest, body: `{"error":"invalid_token"}`, allowed: []string{"coach@broadstreet.test"}},
		{name: "empty allowlist", status: http.StatusOK, body: `{"aud":"client-1","email":"coach@broadstreet.test","email_verified":"true"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			srv := tokenInfoServer(t, tc.status, tc.body, &calls)
			v := NewVerifier(srv.Client(), Config{ClientID: "client-1", AllowedEmails: tc.allowed, TokenInfoURL: srv.URL}, nil)

			if _, err := v.VerifyToken(context.Background(), "ya29.access"); !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestVerifyToken_IDToken(t *testing.T) {
	t.Parallel()

	v := NewVerifier(nil, Config{ClientID: "client-1", AllowedEmails: []string{"coach@broadstreet.test"}}, nil)
	v.validateIDToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if audience != "client-1" {
			t.Fatalf("unexpected audience %q", audience)
		}
		if token == "bad.jwt.token" {
			return nil, errors.New("signature mismatch")
		}
		return &idtoken.Payload{
			Issuer:  "https://accounts.google.com",
			Subject: "42",
			Claims: map[string]any{
				"email":          "coach@broadstreet.test",
				"email_verified": true,
				"name":           "Head Coach",
			},
		}, nil
	}

	principal, err := v.VerifyToken(context.Background(), "header.payload.sig")
	if err != nil {
		t.Fatalf("verify id token: %v", err)
	}
	if principal.Name != "Head Coach" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	if _, err := v.VerifyToken(context.Background(), "bad.jwt.token"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for invalid id token, got %v", err)
	}
}

func TestVerifyToken_TransientFailuresOpenBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenInfoServer(t, http.StatusServiceUnavailable, `{}`, &calls)
	v := NewVerifier(srv.Client(), Config{
		AllowedEmails: []string{"coach@broadstreet.test"},
		TokenInfoURL:  srv.URL,
		Breaker:       resilience.BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	}, nil)

	for range 3 {
		if _, err := v.VerifyToken(context.Background(), "ya29.access"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected breaker to stop the third call, got %d calls", calls.Load())
	}
}
