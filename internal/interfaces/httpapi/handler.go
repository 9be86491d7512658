package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

type Handler struct {
	feedService      *usecase.FeedService
	syncService      *usecase.SyncService
	fixtureAdmin     *usecase.FixtureAdminService
	standingsService *usecase.StandingsService
	overviewService  *usecase.AdminOverviewService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	feedService *usecase.FeedService,
	syncService *usecase.SyncService,
	fixtureAdmin *usecase.FixtureAdminService,
	standingsService *usecase.StandingsService,
	overviewService *usecase.AdminOverviewService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		feedService:      feedService,
		syncService:      syncService,
		fixtureAdmin:     fixtureAdmin,
		standingsService: standingsService,
		overviewService:  overviewService,
		logger:           logger.Named("httpapi"),
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	req := listFixturesRequest{
		Status: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))),
		Team:   strings.TrimSpace(r.URL.Query().Get("team")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.feedService.Fixtures(ctx, usecase.FixtureFilter{Status: req.Status, Team: req.Team})
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "status", req.Status, "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(rows))
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListResults")
	defer span.End()

	teamName := strings.TrimSpace(r.URL.Query().Get("team"))
	rows, err := h.feedService.Results(ctx, teamName)
	if err != nil {
		h.logger.WarnContext(ctx, "list results failed", "team", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(rows))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	table, err := h.feedService.Standings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, table)
}

func (h *Handler) FixturesCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixturesCalendar")
	defer span.End()

	teamName := strings.TrimSpace(r.URL.Query().Get("team"))
	body, err := h.feedService.Calendar(ctx, teamName)
	if err != nil {
		h.logger.WarnContext(ctx, "render calendar failed", "team", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeCalendar(ctx, w, body)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody reads a strict JSON body into dst. An empty body is
// accepted only when allowEmpty is set.
func decodeJSONBody(r *http.Request, dst any, allowEmpty bool) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
