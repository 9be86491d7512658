package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
)

type StandingsService struct {
	fixtureRepo  fixture.Repository
	standingRepo standing.Repository
	league       league.Config
	logger       *logging.Logger
}

func NewStandingsService(
	fixtureRepo fixture.Repository,
	standingRepo standing.Repository,
	leagueCfg league.Config,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		league:       leagueCfg,
		logger:       logger,
	}
}

// Recalculate rebuilds and stores the whole standings table.
func (s *StandingsService) Recalculate(ctx context.Context) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recalculate")
	defer span.End()

	baseline, err := s.standingRepo.LoadBaseline(ctx)
	if err != nil {
		return nil, fmt.Errorf("load standings baseline: %w", err)
	}
	if err := baseline.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	fixtures, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	table := standing.Calculate(fixtures, baseline, s.league.Rules(), s.league.Aliases())
	if err := s.standingRepo.ReplaceAll(ctx, table); err != nil {
		return nil, fmt.Errorf("save standings: %w", err)
	}

	s.logger.InfoContext(ctx, "standings recalculated", "teams", len(table), "fixtures", len(fixtures))
	return table, nil
}

func (s *StandingsService) List(ctx context.Context) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.List")
	defer span.End()

	table, err := s.standingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return table, nil
}
