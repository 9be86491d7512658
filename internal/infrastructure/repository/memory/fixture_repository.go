package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
)

type FixtureRepository struct {
	mu   sync.RWMutex
	rows []fixture.Fixture
}

func NewFixtureRepository(rows []fixture.Fixture) *FixtureRepository {
	return &FixtureRepository{rows: cloneFixtures(rows)}
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := cloneFixtures(r.rows)
	for i := range out {
		out[i].Row = i + 1
	}
	return out, nil
}

func (r *FixtureRepository) ReplaceAll(_ context.Context, rows []fixture.Fixture) error {
	next := cloneFixtures(rows)

	r.mu.Lock()
	r.rows = next
	r.mu.Unlock()
	return nil
}

func cloneFixtures(rows []fixture.Fixture) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Clone())
	}
	return out
}
