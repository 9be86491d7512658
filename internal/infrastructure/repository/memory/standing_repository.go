package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
)

// StandingRepository keeps the table in memory. The baseline is the one the
// service was configured with.
type StandingRepository struct {
	mu       sync.RWMutex
	baseline standing.Baseline
	table    []standing.Standing
}

func NewStandingRepository(baseline standing.Baseline) *StandingRepository {
	return &StandingRepository{baseline: baseline}
}

func (r *StandingRepository) LoadBaseline(_ context.Context) (standing.Baseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return standing.Baseline{
		Cutover: r.baseline.Cutover,
		Rows:    append([]standing.BaselineRow(nil), r.baseline.Rows...),
	}, nil
}

func (r *StandingRepository) List(_ context.Context) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]standing.Standing(nil), r.table...), nil
}

func (r *StandingRepository) ReplaceAll(_ context.Context, table []standing.Standing) error {
	next := append([]standing.Standing(nil), table...)

	r.mu.Lock()
	r.table = next
	r.mu.Unlock()
	return nil
}
