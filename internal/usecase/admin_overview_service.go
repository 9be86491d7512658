package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/platform/cache"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
	"github.com/sourcegraph/conc/pool"
)

const overviewUpcomingLimit = 5

type AdminOverview struct {
	TotalFixtures     int                 `json:"total_fixtures"`
	CompletedFixtures int                 `json:"completed_fixtures"`
	Upcoming          []fixture.Fixture   `json:"upcoming"`
	Standings         []standing.Standing `json:"standings"`
	LastRun           *syncrun.Run        `json:"last_run,omitempty"`
	SyncInProgress    bool                `json:"sync_in_progress"`
}

// AdminOverviewService gathers the admin dashboard in one call.
type AdminOverviewService struct {
	fixtureRepo  fixture.Repository
	standingRepo standing.Repository
	runRepo      syncrun.Repository
	syncSvc      *SyncService
	cache        *cache.Store
	location     *time.Location
	now          func() time.Time
}

func NewAdminOverviewService(
	fixtureRepo fixture.Repository,
	standingRepo standing.Repository,
	runRepo syncrun.Repository,
	syncSvc *SyncService,
	store *cache.Store,
	location *time.Location,
) *AdminOverviewService {
	if location == nil {
		location = time.UTC
	}

	return &AdminOverviewService{
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		runRepo:      runRepo,
		syncSvc:      syncSvc,
		cache:        store,
		location:     location,
		now:          time.Now,
	}
}

func (s *AdminOverviewService) Get(ctx context.Context) (AdminOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminOverviewService.Get")
	defer span.End()

	overview, err := cache.Load(ctx, s.cache, CachePrefixOverview+"admin", s.load)
	if err != nil {
		return AdminOverview{}, err
	}
	if s.syncSvc != nil {
		overview.SyncInProgress = s.syncSvc.InProgress()
	}
	return overview, nil
}

func (s *AdminOverviewService) load(ctx context.Context) (AdminOverview, error) {
	var (
		rows  []fixture.Fixture
		table []standing.Standing
		runs  []syncrun.Run
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		rows, err = s.fixtureRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list fixtures: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		table, err = s.standingRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list standings: %w", err)
		}
		return nil
	})
	if s.runRepo != nil {
		p.Go(func(ctx context.Context) error {
			var err error
			runs, err = s.runRepo.ListRecent(ctx, 1)
			if err != nil {
				return fmt.Errorf("list sync runs: %w", err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return AdminOverview{}, err
	}

	renumberFixtures(rows)
	today := datekey.Today(s.now(), s.location)
	out := AdminOverview{
		TotalFixtures: len(rows),
		Upcoming:      make([]fixture.Fixture, 0, overviewUpcomingLimit),
		Standings:     table,
	}
	for _, row := range rows {
		if row.HasCompletedResult() {
			out.CompletedFixtures++
			continue
		}
		key := datekey.Key(row.Date)
		if key == "" || key < today || len(out.Upcoming) >= overviewUpcomingLimit {
			continue
		}
		if strings.TrimSpace(row.Status) != "" && !strings.EqualFold(strings.TrimSpace(row.Status), fixture.StatusUpcoming) {
			continue
		}
		out.Upcoming = append(out.Upcoming, row)
	}
	if len(runs) > 0 {
		last := runs[0]
		out.LastRun = &last
	}
	return out, nil
}
