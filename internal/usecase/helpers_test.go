package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
)

func testLeague(t *testing.T, feeds ...league.FeedSource) league.Config {
	t.Helper()

	cfg, err := league.New(league.Settings{
		Name:        "Counties 1 Midlands West",
		TimeZone:    "UTC",
		DefaultTime: "15:00",
		Aliases:     map[string]string{"Stratford": "Stratford Upon Avon"},
		Feeds:       feeds,
		Rules:       standing.DefaultRules(),
		Baseline: standing.Baseline{
			Cutover: "2026-02-14",
			Rows: []standing.BaselineRow{
				{Team: "Broadstreet", Played: 16, Won: 14, Lost: 2, PointsFor: 512, PointsAgainst: 210, TryBonus: 3, LosingBonus: 2, Points: 61},
				{Team: "Harbury", Played: 16, Won: 10, Lost: 6, PointsFor: 400, PointsAgainst: 300, Points: 44},
			},
		},
	})
	if err != nil {
		t.Fatalf("build league config: %v", err)
	}
	return cfg
}

type memoryFixtureRepo struct {
	mu       sync.Mutex
	rows     []fixture.Fixture
	saves    int
	listErr  error
	writeErr error
}

func (r *memoryFixtureRepo) List(context.Context) ([]fixture.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]fixture.Fixture, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Clone()
	}
	return out, nil
}

func (r *memoryFixtureRepo) ReplaceAll(_ context.Context, rows []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.rows = make([]fixture.Fixture, len(rows))
	for i, row := range rows {
		r.rows[i] = row.Clone()
	}
	r.saves++
	return nil
}

func (r *memoryFixtureRepo) snapshot() []fixture.Fixture {
	rows, _ := r.List(context.Background())
	return rows
}

type memoryStandingRepo struct {
	mu       sync.Mutex
	baseline standing.Baseline
	table    []standing.Standing
	saves    int
}

func (r *memoryStandingRepo) LoadBaseline(context.Context) (standing.Baseline, error) {
	return r.baseline, nil
}

func (r *memoryStandingRepo) List(context.Context) ([]standing.Standing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.table), nil
}

func (r *memoryStandingRepo) ReplaceAll(_ context.Context, table []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = slices.Clone(table)
	r.saves++
	return nil
}

type memoryRunRepo struct {
	mu   sync.Mutex
	runs []syncrun.Run
}

func (r *memoryRunRepo) Upsert(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.runs {
		if r.runs[i].ID == run.ID {
			r.runs[i] = run
			return nil
		}
	}
	r.runs = append(r.runs, run)
	return nil
}

func (r *memoryRunRepo) GetByID(_ context.Context, id string) (syncrun.Run, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.ID == id {
			return run, true, nil
		}
	}
	return syncrun.Run{}, false, nil
}

func (r *memoryRunRepo) ListRecent(_ context.Context, limit int) ([]syncrun.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.runs)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubFeeds struct {
	items map[string][]ExternalFixture
	errs  map[string]error
	block chan struct{}
	calls int
	mu    sync.Mutex
}

func (s *stubFeeds) FetchFixtures(_ context.Context, source league.FeedSource) ([]ExternalFixture, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	if err := s.errs[source.Name]; err != nil {
		return nil, err
	}
	return slices.Clone(s.items[source.Name]), nil
}

type stubResults struct {
	items []ExternalResult
	err   error
}

func (s stubResults) FetchResults(context.Context) ([]ExternalResult, error) {
	return slices.Clone(s.items), s.err
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("run-%d", g.next), nil
}

func (s *stubFeeds) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
