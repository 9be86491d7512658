package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const clubSite = "https://broadstreetrfc.co.uk"

func TestCORS_ClubSiteReadsFixtures(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{clubSite, "https://www.broadstreetrfc.co.uk"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/fixtures?status=upcoming&team=Broadstreet", nil)
	req.Header.Set("Origin", clubSite)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected fixtures request to reach the handler, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != clubSite {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("expected Vary: Origin for a per-origin grant, got %q", got)
	}
}

func TestCORS_AdminFixtureEditPreflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{clubSite}, next)

	req := httptest.NewRequest(http.MethodOptions, "/v1/admin/fixtures/3", nil)
	req.Header.Set("Origin", clubSite)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Authorization,Content-Type")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if called {
		t.Fatalf("preflight must not reach the admin handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,PUT,DELETE,OPTIONS" {
		t.Fatalf("expected PUT and DELETE allowed for fixture edits, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Authorization,Content-Type,Accept" {
		t.Fatalf("expected the bearer token header allowed, got %q", got)
	}
}

func TestCORS_CalendarFromUnknownSiteGetsNoGrant(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{clubSite}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/fixtures.ics", nil)
	req.Header.Set("Origin", "https://rival-club.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar subscribers without an Origin grant still get the feed, got %d", rec.Code)
	}
}

func TestCORS_WildcardForPublicStandings(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"*"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/standings", nil)
	req.Header.Set("Origin", "https://league-table.example.org")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "" {
		t.Fatalf("wildcard grant should not vary by origin, got %q", got)
	}
}
