package httpapi

import (
	"net/http"

	"github.com/riskibarqy/club-fixtures/internal/domain/admin"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicFeedRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures.ics", handler.FixturesCalendar)
	mux.HandleFunc("GET /v1/results", handler.ListResults)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier admin.Verifier) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireAdmin(verifier, fn)
	}

	mux.Handle("GET /v1/admin/me", guard(handler.GetAdminMe))
	mux.Handle("GET /v1/admin/overview", guard(handler.GetAdminOverview))

	mux.Handle("POST /v1/admin/sync/fixtures", guard(handler.SyncFixtures))
	mux.Handle("POST /v1/admin/sync/results", guard(handler.SyncResults))
	mux.Handle("GET /v1/admin/sync/runs", guard(handler.ListSyncRuns))
	mux.Handle("GET /v1/admin/sync/runs/{runID}", guard(handler.GetSyncRun))

	mux.Handle("GET /v1/admin/standings", guard(handler.ListAdminStandings))
	mux.Handle("POST /v1/admin/standings/recalculate", guard(handler.RecalculateStandings))

	mux.Handle("GET /v1/admin/fixtures", guard(handler.ListAdminFixtures))
	mux.Handle("POST /v1/admin/fixtures", guard(handler.CreateFixture))
	mux.Handle("PUT /v1/admin/fixtures", guard(handler.ReplaceFixtures))
	mux.Handle("PUT /v1/admin/fixtures/{row}", guard(handler.UpdateFixture))
	mux.Handle("DELETE /v1/admin/fixtures/{row}", guard(handler.DeleteFixture))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-fixtures", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncFixturesJob)))
	mux.Handle("POST /v1/internal/jobs/sync-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncResultsJob)))
	mux.Handle("POST /v1/internal/jobs/recalculate-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateStandingsJob)))
}
