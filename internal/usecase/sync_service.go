package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/platform/id"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
)

const syncFlightKey = "fixtures-sync"

type SyncRequest struct {
	Kind        syncrun.Kind
	Trigger     syncrun.Trigger
	OverrideURL string
}

// SyncSummary is what the admin surface shows after a sync. Only the
// sections of the phases that ran are filled.
type SyncSummary struct {
	RunID   string       `json:"run_id"`
	Kind    syncrun.Kind `json:"kind"`
	Shared  bool         `json:"shared,omitempty"`
	*FixtureSyncResult
	*ResultsSyncResult
	ResultsError   string `json:"results_error,omitempty"`
	StandingsTeams *int   `json:"standings_teams,omitempty"`
	StandingsError string `json:"standings_error,omitempty"`
}

// Fields flattens the summary for run history storage.
func (s SyncSummary) Fields() map[string]any {
	out := map[string]any{
		"run_id": s.RunID,
		"kind":   string(s.Kind),
	}
	if f := s.FixtureSyncResult; f != nil {
		out["fetched"] = f.Fetched
		out["added"] = f.Added
		out["updated"] = f.Updated
		out["skipped"] = f.Skipped
		out["removed_duplicates"] = f.RemovedDuplicates
		out["total_rows"] = f.TotalRows
		out["feed_sources_total"] = f.FeedSourcesTotal
		out["feed_sources_success"] = f.FeedSourcesSuccess
		out["feed_sources_failed"] = f.FeedSourcesFailed
		out["fetched_raw"] = f.FetchedRaw
		out["fetched_deduped"] = f.FetchedDeduped
		if len(f.FailedSources) > 0 {
			failed := make([]map[string]any, 0, len(f.FailedSources))
			for _, item := range f.FailedSources {
				failed = append(failed, map[string]any{"source": item.Source, "error": item.Error})
			}
			out["failed_sources"] = failed
		}
	}
	if r := s.ResultsSyncResult; r != nil {
		out["results_fetched"] = r.Fetched
		out["results_matched"] = r.Matched
		out["results_updated"] = r.Updated
		out["results_created"] = r.Created
		out["results_skipped"] = r.Skipped
	}
	if s.ResultsError != "" {
		out["results_error"] = s.ResultsError
	}
	if s.StandingsTeams != nil {
		out["standings_teams"] = *s.StandingsTeams
	}
	if s.StandingsError != "" {
		out["standings_error"] = s.StandingsError
	}
	return out
}

// SyncService runs sync jobs one at a time. Callers arriving while a sync
// is running wait for it and share its summary.
type SyncService struct {
	fixtures  *FixtureSyncService
	results   *ResultsSyncService
	standings *StandingsService
	runRepo   syncrun.Repository
	idGen     id.Generator
	cache     CacheInvalidator
	logger    *logging.Logger
	now       func() time.Time
	flight    resilience.SingleFlight
}

func NewSyncService(
	fixtures *FixtureSyncService,
	results *ResultsSyncService,
	standings *StandingsService,
	runRepo syncrun.Repository,
	idGen id.Generator,
	cache CacheInvalidator,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if cache == nil {
		cache = noopInvalidator{}
	}

	return &SyncService{
		fixtures:  fixtures,
		results:   results,
		standings: standings,
		runRepo:   runRepo,
		idGen:     idGen,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// InProgress reports whether a sync is running right now.
func (s *SyncService) InProgress() bool {
	return s.flight.InFlight(syncFlightKey)
}

func (s *SyncService) Run(ctx context.Context, req SyncRequest) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if _, ok := syncrun.ParseKind(string(req.Kind)); !ok {
		return SyncSummary{}, fmt.Errorf("%w: unknown sync kind %q", ErrInvalidInput, req.Kind)
	}
	if req.Trigger == "" {
		req.Trigger = syncrun.TriggerManual
	}
	req.OverrideURL = strings.TrimSpace(req.OverrideURL)

	// The run outlives a cancelled caller so a half-written table is never
	// left behind.
	runCtx := context.WithoutCancel(ctx)
	span.SetAttributes(
		attribute.String("sync.kind", string(req.Kind)),
		attribute.String("sync.trigger", string(req.Trigger)),
	)
	out, err, shared := s.flight.Do(syncFlightKey, func() (any, error) {
		return s.execute(runCtx, req)
	})
	failSpan(span, err)

	summary, _ := out.(SyncSummary)
	summary.Shared = shared
	if shared {
		s.logger.InfoContext(ctx, "joined in-flight sync", "run_id", summary.RunID, "kind", string(summary.Kind))
	}
	return summary, err
}

func (s *SyncService) execute(ctx context.Context, req SyncRequest) (SyncSummary, error) {
	runID, err := s.idGen.NewID()
	if err != nil {
		return SyncSummary{}, fmt.Errorf("generate run id: %w", err)
	}

	logger := s.logger.With("run_id", runID, "kind", string(req.Kind), "trigger", string(req.Trigger))
	run := syncrun.Run{
		ID:        runID,
		Kind:      req.Kind,
		Trigger:   req.Trigger,
		Status:    syncrun.StatusRunning,
		StartedAt: s.now().UTC(),
	}
	s.recordRun(ctx, logger, run)

	summary := SyncSummary{RunID: runID, Kind: req.Kind}
	var runErr error
	switch req.Kind {
	case syncrun.KindFixtures:
		runErr = s.runFixtures(ctx, logger, req, &summary)
	case syncrun.KindResults:
		runErr = s.runResults(ctx, logger, &summary)
	case syncrun.KindStandings:
		runErr = s.runStandings(ctx, &summary, true)
	}

	s.cache.Invalidate(ctx, CachePrefixFixtures, CachePrefixStandings, CachePrefixOverview)

	finished := s.now().UTC()
	run.FinishedAt = &finished
	run.Summary = summary.Fields()
	if runErr != nil {
		run.Status = syncrun.StatusFailed
		run.Error = runErr.Error()
		logger.ErrorContext(ctx, "sync failed", "error", runErr)
	} else {
		run.Status = syncrun.StatusCompleted
		logger.InfoContext(ctx, "sync completed", "duration_ms", finished.Sub(run.StartedAt).Milliseconds())
	}
	s.recordRun(ctx, logger, run)

	return summary, runErr
}

func (s *SyncService) runFixtures(ctx context.Context, logger *logging.Logger, req SyncRequest, summary *SyncSummary) error {
	fixtures, err := s.fixtures.Sync(ctx, req.OverrideURL)
	if fixtures.FeedSourcesTotal > 0 {
		summary.FixtureSyncResult = &fixtures
	}
	if err != nil {
		return err
	}

	if s.results == nil {
		summary.ResultsError = fmt.Sprintf("%v: results provider is disabled", ErrConfiguration)
	} else if results, err := s.results.Sync(ctx); err != nil {
		summary.ResultsError = err.Error()
		logger.WarnContext(ctx, "results sync failed during fixture sync", "error", err)
	} else {
		summary.ResultsSyncResult = &results
	}

	return s.runStandings(ctx, summary, false)
}

func (s *SyncService) runResults(ctx context.Context, logger *logging.Logger, summary *SyncSummary) error {
	if s.results == nil {
		return fmt.Errorf("%w: results provider is disabled", ErrConfiguration)
	}
	results, err := s.results.Sync(ctx)
	if err != nil {
		return err
	}
	summary.ResultsSyncResult = &results

	if !results.Changed() {
		logger.DebugContext(ctx, "results unchanged, standings left as they are")
		return nil
	}
	return s.runStandings(ctx, summary, false)
}

// runStandings recalculates the table. After a fixture or results write a
// failure is reported in the summary instead of failing the run.
func (s *SyncService) runStandings(ctx context.Context, summary *SyncSummary, fatal bool) error {
	table, err := s.standings.Recalculate(ctx)
	if err != nil {
		if fatal {
			return err
		}
		summary.StandingsError = err.Error()
		s.logger.WarnContext(ctx, "standings recalculation failed after sync", "run_id", summary.RunID, "error", err)
		return nil
	}
	teams := len(table)
	summary.StandingsTeams = &teams
	return nil
}

func (s *SyncService) recordRun(ctx context.Context, logger *logging.Logger, run syncrun.Run) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Upsert(ctx, run); err != nil {
		logger.WarnContext(ctx, "record sync run failed", "status", string(run.Status), "error", err)
	}
}

func (s *SyncService) GetRun(ctx context.Context, runID string) (syncrun.Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return syncrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	if s.runRepo == nil {
		return syncrun.Run{}, fmt.Errorf("%w: run=%s", ErrNotFound, runID)
	}

	run, ok, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !ok {
		return syncrun.Run{}, fmt.Errorf("%w: run=%s", ErrNotFound, runID)
	}
	return run, nil
}

func (s *SyncService) ListRuns(ctx context.Context, limit int) ([]syncrun.Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if s.runRepo == nil {
		return []syncrun.Run{}, nil
	}

	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}
