package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
)

// ExternalResult is one entry of the results API. PlayedAt is zero when the
// API date could not be read.
type ExternalResult struct {
	Type        string
	PlayedAt    time.Time
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	Competition string
}

type ResultsProvider interface {
	FetchResults(ctx context.Context) ([]ExternalResult, error)
}

type ResultsSyncResult struct {
	Fetched int `json:"results_fetched"`
	Matched int `json:"results_matched"`
	Updated int `json:"results_updated"`
	Created int `json:"results_created"`
	Skipped int `json:"results_skipped"`
}

// Changed reports whether the run wrote anything.
func (r ResultsSyncResult) Changed() bool {
	return r.Updated+r.Created > 0
}

type ResultsSyncService struct {
	fixtureRepo fixture.Repository
	results     ResultsProvider
	league      league.Config
	logger      *logging.Logger
}

func NewResultsSyncService(
	fixtureRepo fixture.Repository,
	results ResultsProvider,
	leagueCfg league.Config,
	logger *logging.Logger,
) *ResultsSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResultsSyncService{
		fixtureRepo: fixtureRepo,
		results:     results,
		league:      leagueCfg,
		logger:      logger,
	}
}

// Sync patches scores from the results API. The fixtures table is only
// rewritten when a score changed or a result was added.
func (s *ResultsSyncService) Sync(ctx context.Context) (ResultsSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsSyncService.Sync")
	defer span.End()

	if s.results == nil {
		return ResultsSyncResult{}, fmt.Errorf("%w: results provider is disabled", ErrConfiguration)
	}

	items, err := s.results.FetchResults(ctx)
	if err != nil {
		return ResultsSyncResult{}, fmt.Errorf("fetch results: %w", err)
	}
	if len(items) == 0 {
		return ResultsSyncResult{}, nil
	}

	stored, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return ResultsSyncResult{}, fmt.Errorf("list fixtures: %w", err)
	}

	teams := seedTeamIndex(s.league.Aliases(), s.league.Roster(), stored)
	rows, changes := applyResults(stored, items, teams, s.league.Location())
	result := ResultsSyncResult{
		Fetched: changes.Fetched,
		Matched: changes.Matched,
		Updated: changes.Updated,
		Created: changes.Created,
		Skipped: changes.Skipped,
	}

	if result.Changed() {
		sortFixtures(rows)
		renumberFixtures(rows)
		if err := s.fixtureRepo.ReplaceAll(ctx, rows); err != nil {
			return result, fmt.Errorf("save fixtures: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "results synced",
		"fetched", result.Fetched,
		"matched", result.Matched,
		"updated", result.Updated,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}
