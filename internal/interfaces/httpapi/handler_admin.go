package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

func (h *Handler) GetAdminMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAdminMe")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, principal)
}

func (h *Handler) GetAdminOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAdminOverview")
	defer span.End()

	overview, err := h.overviewService.Get(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get admin overview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(overview))
}

func (h *Handler) SyncFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncFixtures")
	defer span.End()

	var req syncFixturesRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.ICSURL = strings.TrimSpace(req.ICSURL)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.syncService.Run(ctx, usecase.SyncRequest{
		Kind:        syncrun.KindFixtures,
		Trigger:     syncrun.TriggerManual,
		OverrideURL: req.ICSURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "manual fixture sync failed", "run_id", summary.RunID, "override", req.ICSURL != "", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) SyncResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncResults")
	defer span.End()

	summary, err := h.syncService.Run(ctx, usecase.SyncRequest{
		Kind:    syncrun.KindResults,
		Trigger: syncrun.TriggerManual,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "manual results sync failed", "run_id", summary.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	var req listSyncRunsRequest
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a number", usecase.ErrInvalidInput))
			return
		}
		req.Limit = limit
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.syncService.ListRuns(ctx, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runs)
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	run, err := h.syncService.GetRun(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get sync run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, run)
}

func (h *Handler) ListAdminStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAdminStandings")
	defer span.End()

	table, err := h.standingsService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, table)
}

func (h *Handler) RecalculateStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateStandings")
	defer span.End()

	summary, err := h.syncService.Run(ctx, usecase.SyncRequest{
		Kind:    syncrun.KindStandings,
		Trigger: syncrun.TriggerManual,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate standings failed", "run_id", summary.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	table, err := h.standingsService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsRecalculatedDTO{
		RunID: summary.RunID,
		Teams: len(table),
		Table: table,
	})
}

func (h *Handler) ListAdminFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAdminFixtures")
	defer span.End()

	rows, err := h.fixtureAdmin.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list admin fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(rows))
}

func (h *Handler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFixture")
	defer span.End()

	var req fixtureRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureAdmin.Create(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "create fixture failed", "home_team", req.HomeTeam, "away_team", req.AwayTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fixtureWriteToDTO(result))
}

func (h *Handler) UpdateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFixture")
	defer span.End()

	row, err := parseRow(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req fixtureRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureAdmin.Update(ctx, row, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "update fixture failed", "row", row, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureWriteToDTO(result))
}

func (h *Handler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFixture")
	defer span.End()

	row, err := parseRow(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureAdmin.Delete(ctx, row)
	if err != nil {
		h.logger.WarnContext(ctx, "delete fixture failed", "row", row, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureWriteToDTO(result))
}

func (h *Handler) ReplaceFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceFixtures")
	defer span.End()

	var req replaceFixturesRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.FixtureInput, 0, len(req.Fixtures))
	for _, item := range req.Fixtures {
		inputs = append(inputs, item.toInput())
	}

	result, err := h.fixtureAdmin.Replace(ctx, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "replace fixtures failed", "rows", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureWriteToDTO(result))
}

func parseRow(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("row"))
	row, err := strconv.Atoi(raw)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("%w: row must be a positive number, got %q", usecase.ErrInvalidInput, raw)
	}
	return row, nil
}
