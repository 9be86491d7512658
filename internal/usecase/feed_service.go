package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/domain/team"
	"github.com/riskibarqy/club-fixtures/internal/platform/cache"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

type FixtureFilter struct {
	Status string
	Team   string
}

// FeedService serves the public read side: fixtures, results, standings and
// the calendar export.
type FeedService struct {
	fixtureRepo  fixture.Repository
	standingRepo standing.Repository
	league       league.Config
	cache        *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewFeedService(
	fixtureRepo fixture.Repository,
	standingRepo standing.Repository,
	leagueCfg league.Config,
	store *cache.Store,
	logger *logging.Logger,
) *FeedService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FeedService{
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		league:       leagueCfg,
		cache:        store,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *FeedService) Fixtures(ctx context.Context, filter FixtureFilter) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Fixtures")
	defer span.End()

	status := strings.ToLower(strings.TrimSpace(filter.Status))
	switch status {
	case "", fixture.StatusUpcoming, fixture.StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, fixture.StatusUpcoming, fixture.StatusCompleted)
	}

	rows, err := s.allFixtures(ctx)
	if err != nil {
		return nil, err
	}

	teamKey := s.teamKey(filter.Team)
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		if status != "" && s.effectiveStatus(row) != status {
			continue
		}
		if teamKey != "" && team.Key(row.HomeTeam) != teamKey && team.Key(row.AwayTeam) != teamKey {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// Results lists scored fixtures, most recent first.
func (s *FeedService) Results(ctx context.Context, teamName string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Results")
	defer span.End()

	rows, err := s.allFixtures(ctx)
	if err != nil {
		return nil, err
	}

	teamKey := s.teamKey(teamName)
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		if !row.HasScores() {
			continue
		}
		if teamKey != "" && team.Key(row.HomeTeam) != teamKey && team.Key(row.AwayTeam) != teamKey {
			continue
		}
		out = append(out, row)
	}
	slices.Reverse(out)
	return out, nil
}

func (s *FeedService) Standings(ctx context.Context) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Standings")
	defer span.End()

	table, err := cache.Load(ctx, s.cache, CachePrefixStandings+"table", func(ctx context.Context) ([]standing.Standing, error) {
		table, err := s.standingRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list standings: %w", err)
		}
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(table), nil
}

// Calendar renders the fixtures as an iCalendar document for subscribers.
func (s *FeedService) Calendar(ctx context.Context, teamName string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Calendar")
	defer span.End()

	rows, err := s.Fixtures(ctx, FixtureFilter{Team: teamName})
	if err != nil {
		return nil, err
	}

	doc, err := renderCalendar(calendarInput{
		Name:        s.league.Name(),
		Rows:        rows,
		Location:    s.league.Location(),
		DefaultTime: s.league.DefaultTime(),
		Stamp:       s.now(),
	})
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("render calendar: %w", err)
	}
	s.logger.DebugContext(ctx, "calendar rendered", "events", len(rows), "bytes", len(doc))
	return doc, nil
}

func (s *FeedService) allFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	rows, err := cache.Load(ctx, s.cache, CachePrefixFixtures+"all", func(ctx context.Context) ([]fixture.Fixture, error) {
		rows, err := s.fixtureRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list fixtures: %w", err)
		}
		renumberFixtures(rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(rows), nil
}

func (s *FeedService) teamKey(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	canonical, _ := team.Canonicalize(name, s.league.Aliases(), team.Seen{})
	return team.Key(canonical)
}

// effectiveStatus fills a blank status from the scores and the date.
func (s *FeedService) effectiveStatus(row fixture.Fixture) string {
	status := strings.ToLower(strings.TrimSpace(row.Status))
	if status != "" {
		return status
	}
	if row.HasScores() || datekey.IsPast(row.Date, s.now(), s.league.Location()) {
		return fixture.StatusCompleted
	}
	return fixture.StatusUpcoming
}

type calendarInput struct {
	Name        string
	Rows        []fixture.Fixture
	Location    *time.Location
	DefaultTime string
	Stamp       time.Time
}

const (
	calendarProductID   = "-//club-fixtures//fixtures feed//EN"
	calendarLineLimit   = 75
	calendarMatchLength = 2 * time.Hour
)

func renderCalendar(in calendarInput) ([]byte, error) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetProductId(calendarProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	if in.Name != "" {
		cal.SetXWRCalName(in.Name)
	}
	cal.SetXWRTimezone(loc.String())

	for _, row := range in.Rows {
		start, ok := fixtureStart(row, in.DefaultTime, loc)
		if !ok {
			continue
		}

		event := cal.AddEvent(strings.ReplaceAll(row.Key(), "|", "-") + "@club-fixtures")
		event.SetDtStampTime(in.Stamp)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(calendarMatchLength))
		event.SetSummary(calendarSummary(row))
		if v := strings.TrimSpace(row.Venue); v != "" {
			event.SetLocation(v)
		}
		if c := strings.TrimSpace(row.Competition); c != "" {
			event.SetDescription(c)
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := cal.SerializeTo(buf, ics.WithNewLineWindows, ics.WithLineLength(calendarLineLimit)); err != nil {
		return nil, err
	}
	return slices.Clone(buf.B), nil
}

func fixtureStart(row fixture.Fixture, defaultTime string, loc *time.Location) (time.Time, bool) {
	day, ok := datekey.Parse(row.Date)
	if !ok {
		return time.Time{}, false
	}
	clock := datekey.NormalizeTime(row.Time)
	if clock == "" {
		clock = datekey.NormalizeTime(defaultTime)
	}
	if clock == "" {
		clock = "15:00"
	}
	kickoff, err := time.ParseInLocation(datekey.KeyLayout+" 15:04", day.Format(datekey.KeyLayout)+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return kickoff, true
}

func calendarSummary(row fixture.Fixture) string {
	if row.HasScores() {
		return fmt.Sprintf("%s %d - %d %s", row.HomeTeam, *row.HomeScore, *row.AwayScore, row.AwayTeam)
	}
	return row.HomeTeam + " vs " + row.AwayTeam
}
