package icsfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	got, err := NormalizeURL(" webcal://ics.ecal.com/ecal-sub/698b2ee8e21aff00022f970d/RFU.ics ")
	if err != nil {
		t.Fatalf("normalize url: %v", err)
	}
	if got != "https://ics.ecal.com/ecal-sub/698b2ee8e21aff00022f970d/RFU.ics" {
		t.Fatalf("unexpected url %q", got)
	}

	for _, bad := range []string{"", "ftp://example.com/feed.ics", "https://"} {
		if _, err := NormalizeURL(bad); !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", bad, err)
		}
	}
}

func TestClient_FetchFixtures(t *testing.T) {
	t.Parallel()

	var accept atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old.ics" {
			http.Redirect(w, r, "/feed.ics", http.StatusFound)
			return
		}
		accept.Store(r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(calendar("SUMMARY:Broadstreet vs Stamford\r\nDTSTART:20260418T140000Z\r\n")))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Timeout:  5 * time.Second,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) },
	})

	got, err := client.FetchFixtures(context.Background(), league.FeedSource{Name: "Broadstreet", URL: server.URL + "/old.ics"})
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(got) != 1 || got[0].Source != "Broadstreet" || got[0].AwayTeam != "Stamford" {
		t.Fatalf("unexpected fixtures %+v", got)
	}
	if value, _ := accept.Load().(string); value != acceptHeader {
		t.Fatalf("expected accept header %q, got %q", acceptHeader, value)
	}
}

func TestClient_FetchFixturesRejectsNonCalendarBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>Subscription expired</body></html>"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Timeout: 5 * time.Second, Location: time.UTC})
	_, err := client.FetchFixtures(context.Background(), league.FeedSource{Name: "Stamford", URL: server.URL + "/feed.ics"})
	if err == nil || !strings.Contains(err.Error(), "feed Stamford") {
		t.Fatalf("expected a parse error naming the feed, got %v", err)
	}
}

func TestClient_FetchNon2xxIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Timeout: 5 * time.Second})
	_, err := client.Fetch(context.Background(), server.URL+"/feed.ics")
	if err == nil || !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("expected status error, got %v", err)
	}
	if isCircuitFailure(err) {
		t.Fatalf("404 should not count against the breaker")
	}
}

func TestClient_BreakerOpensPerHost(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Timeout: 5 * time.Second,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.Fetch(context.Background(), server.URL); err == nil {
			t.Fatalf("expected upstream failure")
		}
	}
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected open breaker to skip the request, got %d hits", hits.Load())
	}
}
