package sheets

import (
	"context"

	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	gsheets "google.golang.org/api/sheets/v4"
)

type StandingRepository struct {
	store    *store
	fallback standing.Baseline
}

// NewStandingRepository reads the baseline from its own tab and falls back
// to the configured baseline when that tab is empty or missing.
func NewStandingRepository(api API, cfg Config, fallback standing.Baseline, logger *logging.Logger) *StandingRepository {
	return &StandingRepository{store: newStore(api, cfg, logger), fallback: fallback}
}

func (r *StandingRepository) LoadBaseline(ctx context.Context) (standing.Baseline, error) {
	rows, err := r.store.read(ctx, r.store.cfg.BaselineTab)
	if err != nil {
		return standing.Baseline{}, err
	}
	if len(rows) > 1 {
		if baseline, ok := standing.DecodeBaseline(rows[0], rows[1:]); ok {
			if baseline.Cutover == "" {
				baseline.Cutover = r.fallback.Cutover
			}
			return baseline, nil
		}
	}
	return standing.Baseline{
		Cutover: r.fallback.Cutover,
		Rows:    append([]standing.BaselineRow(nil), r.fallback.Rows...),
	}, nil
}

func (r *StandingRepository) List(ctx context.Context) ([]standing.Standing, error) {
	rows, err := r.store.read(ctx, r.store.cfg.StandingsTab)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []standing.Standing{}, nil
	}
	return standing.DecodeTable(rows[0], rows[1:]), nil
}

func (r *StandingRepository) ReplaceAll(ctx context.Context, table []standing.Standing) error {
	tab := r.store.cfg.StandingsTab
	rows := make([][]string, 0, len(table)+1)
	rows = append(rows, standing.Header)
	for _, item := range table {
		rows = append(rows, item.Cells())
	}

	sheetID, err := r.store.write(ctx, tab, rows)
	if err != nil {
		return err
	}

	columns := len(standing.Header)
	requests := []*gsheets.Request{headerStyle(sheetID, columns), freezeHeader(sheetID)}
	for i, item := range table {
		requests = append(requests, rowStyle(sheetID, i+1, columns, item.Highlight))
	}
	r.store.style(ctx, tab, requests)
	return nil
}
