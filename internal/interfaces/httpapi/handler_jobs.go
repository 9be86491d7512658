package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

func (h *Handler) RunSyncFixturesJob(w http.ResponseWriter, r *http.Request) {
	h.runSyncJob(w, r, "httpapi.Handler.RunSyncFixturesJob", syncrun.KindFixtures)
}

func (h *Handler) RunSyncResultsJob(w http.ResponseWriter, r *http.Request) {
	h.runSyncJob(w, r, "httpapi.Handler.RunSyncResultsJob", syncrun.KindResults)
}

func (h *Handler) RunRecalculateStandingsJob(w http.ResponseWriter, r *http.Request) {
	h.runSyncJob(w, r, "httpapi.Handler.RunRecalculateStandingsJob", syncrun.KindStandings)
}

func (h *Handler) runSyncJob(w http.ResponseWriter, r *http.Request, spanName string, kind syncrun.Kind) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	var req internalJobRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.ICSURL = strings.TrimSpace(req.ICSURL)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	syncReq := usecase.SyncRequest{Kind: kind, Trigger: syncrun.TriggerJob}
	if kind == syncrun.KindFixtures {
		syncReq.OverrideURL = req.ICSURL
	}

	summary, err := h.syncService.Run(ctx, syncReq)
	if err != nil {
		h.logger.WarnContext(ctx, "internal job failed",
			"kind", string(kind),
			"reason", req.Reason,
			"run_id", summary.RunID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "internal job completed", "kind", string(kind), "reason", req.Reason, "run_id", summary.RunID, "shared", summary.Shared)
	writeSuccess(ctx, w, http.StatusOK, summary)
}
