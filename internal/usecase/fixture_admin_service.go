package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/team"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
)

// FixtureInput is an admin-supplied fixture row.
type FixtureInput struct {
	Date        string
	Time        string
	HomeTeam    string
	AwayTeam    string
	Venue       string
	Competition string
	Status      string
	HomeScore   *int
	AwayScore   *int
	HomeBP      *int
	AwayBP      *int
}

// FixtureWriteResult reports an admin edit and what happened to standings.
type FixtureWriteResult struct {
	Fixture        *fixture.Fixture `json:"fixture,omitempty"`
	TotalRows      int              `json:"total_rows"`
	Standings      string           `json:"standings"`
	StandingsTeams int              `json:"standings_teams,omitempty"`
	StandingsError string           `json:"standings_error,omitempty"`
}

type FixtureAdminConfig struct {
	// QueueStandings hands recalculation to the job queue instead of
	// running it on the request path.
	QueueStandings bool
}

type FixtureAdminService struct {
	fixtureRepo fixture.Repository
	league      league.Config
	refresher   standingsRefresher
	cache       CacheInvalidator
	logger      *logging.Logger
	now         func() time.Time
}

func NewFixtureAdminService(
	fixtureRepo fixture.Repository,
	standings *StandingsService,
	queue JobQueue,
	cache CacheInvalidator,
	leagueCfg league.Config,
	cfg FixtureAdminConfig,
	logger *logging.Logger,
) *FixtureAdminService {
	if logger == nil {
		logger = logging.Default()
	}
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if cache == nil {
		cache = noopInvalidator{}
	}

	svc := &FixtureAdminService{
		fixtureRepo: fixtureRepo,
		league:      leagueCfg,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
	svc.refresher = standingsRefresher{
		standings: standings,
		queue:     queue,
		queued:    cfg.QueueStandings,
		now:       func() time.Time { return svc.now() },
	}
	return svc
}

func (s *FixtureAdminService) List(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureAdminService.List")
	defer span.End()

	rows, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	renumberFixtures(rows)
	return rows, nil
}

func (s *FixtureAdminService) Create(ctx context.Context, input FixtureInput) (FixtureWriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureAdminService.Create")
	defer span.End()

	rows, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return FixtureWriteResult{}, fmt.Errorf("list fixtures: %w", err)
	}

	aliases := s.league.Aliases()
	item, err := s.buildFixture(input, seedTeamIndex(aliases, s.league.Roster(), rows))
	if err != nil {
		return FixtureWriteResult{}, err
	}
	key := item.KeyWith(aliases)
	if pos := findByKey(rows, aliases, key, -1); pos >= 0 {
		return FixtureWriteResult{}, fmt.Errorf("%w: fixture already exists at row %d", ErrInvalidInput, pos+1)
	}

	rows = append(rows, item)
	return s.save(ctx, rows, key, "create")
}

func (s *FixtureAdminService) Update(ctx context.Context, row int, input FixtureInput) (FixtureWriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureAdminService.Update")
	defer span.End()

	rows, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return FixtureWriteResult{}, fmt.Errorf("list fixtures: %w", err)
	}
	if row < 1 || row > len(rows) {
		return FixtureWriteResult{}, fmt.Errorf("%w: fixture row=%d", ErrNotFound, row)
	}

	aliases := s.league.Aliases()
	item, err := s.buildFixture(input, seedTeamIndex(aliases, s.league.Roster(), rows))
	if err != nil {
		return FixtureWriteResult{}, err
	}
	key := item.KeyWith(aliases)
	if pos := findByKey(rows, aliases, key, row-1); pos >= 0 {
		return FixtureWriteResult{}, fmt.Errorf("%w: fixture already exists at row %d", ErrInvalidInput, pos+1)
	}

	item.Extra = rows[row-1].Extra
	rows[row-1] = item
	return s.save(ctx, rows, key, "update")
}

func (s *FixtureAdminService) Delete(ctx context.Context, row int) (FixtureWriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureAdminService.Delete")
	defer span.End()

	rows, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return FixtureWriteResult{}, fmt.Errorf("list fixtures: %w", err)
	}
	if row < 1 || row > len(rows) {
		return FixtureWriteResult{}, fmt.Errorf("%w: fixture row=%d", ErrNotFound, row)
	}

	rows = append(rows[:row-1], rows[row:]...)
	return s.save(ctx, rows, "", "delete")
}

// Replace swaps the whole table for inputs. Duplicate fixtures in the batch
// are rejected.
func (s *FixtureAdminService) Replace(ctx context.Context, inputs []FixtureInput) (FixtureWriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureAdminService.Replace")
	defer span.End()

	teams := seedTeamIndex(s.league.Aliases(), s.league.Roster(), nil)
	rows := make([]fixture.Fixture, 0, len(inputs))
	seen := make(map[string]int, len(inputs))
	for i, input := range inputs {
		item, err := s.buildFixture(input, teams)
		if err != nil {
			return FixtureWriteResult{}, fmt.Errorf("fixture %d: %w", i+1, err)
		}
		key := item.KeyWith(teams.Aliases())
		if prev, exists := seen[key]; exists {
			return FixtureWriteResult{}, fmt.Errorf("%w: fixture %d duplicates fixture %d", ErrInvalidInput, i+1, prev+1)
		}
		seen[key] = i
		rows = append(rows, item)
	}

	return s.save(ctx, rows, "", "replace")
}

func (s *FixtureAdminService) save(ctx context.Context, rows []fixture.Fixture, key, action string) (FixtureWriteResult, error) {
	sortFixtures(rows)
	renumberFixtures(rows)
	if err := s.fixtureRepo.ReplaceAll(ctx, rows); err != nil {
		return FixtureWriteResult{}, fmt.Errorf("save fixtures: %w", err)
	}
	s.cache.Invalidate(ctx, CachePrefixFixtures, CachePrefixOverview)

	result := FixtureWriteResult{TotalRows: len(rows)}
	if key != "" {
		if pos := findByKey(rows, s.league.Aliases(), key, -1); pos >= 0 {
			item := rows[pos]
			result.Fixture = &item
		}
	}

	outcome := s.refresher.refresh(ctx, "admin-"+action)
	result.Standings = outcome.Mode
	result.StandingsTeams = outcome.Teams
	if outcome.Err != nil {
		result.StandingsError = outcome.Err.Error()
		s.logger.WarnContext(ctx, "standings refresh after fixture edit failed", "action", action, "error", outcome.Err)
	} else if outcome.Mode == StandingsRecalculated {
		s.cache.Invalidate(ctx, CachePrefixStandings)
	}

	s.logger.InfoContext(ctx, "fixtures edited", "action", action, "total_rows", result.TotalRows, "standings", result.Standings)
	return result, nil
}

func (s *FixtureAdminService) buildFixture(input FixtureInput, teams *team.Index) (fixture.Fixture, error) {
	date := strings.TrimSpace(input.Date)
	if datekey.Key(date) == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: date %q is not a recognised date", ErrInvalidInput, input.Date)
	}

	home := teams.Canonical(team.Clean(input.HomeTeam))
	away := teams.Canonical(team.Clean(input.AwayTeam))
	if team.Key(home) == "" || team.Key(away) == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: home and away teams are required", ErrInvalidInput)
	}
	if team.Key(home) == team.Key(away) {
		return fixture.Fixture{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}

	kickoff := strings.TrimSpace(input.Time)
	if kickoff != "" {
		kickoff = datekey.NormalizeTime(kickoff)
		if kickoff == "" {
			return fixture.Fixture{}, fmt.Errorf("%w: time %q must look like HH:mm", ErrInvalidInput, input.Time)
		}
	}
	if (input.HomeScore == nil) != (input.AwayScore == nil) {
		return fixture.Fixture{}, fmt.Errorf("%w: home and away scores go together", ErrInvalidInput)
	}
	for _, v := range []*int{input.HomeScore, input.AwayScore, input.HomeBP, input.AwayBP} {
		if v != nil && *v < 0 {
			return fixture.Fixture{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
		}
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = fixture.StatusUpcoming
		if input.HomeScore != nil {
			status = fixture.StatusCompleted
		}
	}

	item := fixture.Fixture{
		Date:        date,
		Time:        kickoff,
		HomeTeam:    home,
		AwayTeam:    away,
		Venue:       strings.TrimSpace(input.Venue),
		Competition: strings.TrimSpace(input.Competition),
		Status:      status,
		HomeScore:   input.HomeScore,
		AwayScore:   input.AwayScore,
		HomeBP:      input.HomeBP,
		AwayBP:      input.AwayBP,
	}
	return item.Clone(), nil
}

// findByKey returns the index of the row with key, ignoring skip, or -1.
func findByKey(rows []fixture.Fixture, aliases team.Aliases, key string, skip int) int {
	if key == "" {
		return -1
	}
	for i, row := range rows {
		if i != skip && row.KeyWith(aliases) == key {
			return i
		}
	}
	return -1
}
