package workbook

import (
	"context"

	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/xuri/excelize/v2"
)

type StandingRepository struct {
	wb       *Workbook
	fallback standing.Baseline
}

func NewStandingRepository(wb *Workbook, fallback standing.Baseline) *StandingRepository {
	return &StandingRepository{wb: wb, fallback: fallback}
}

// LoadBaseline prefers the baseline sheet and falls back to the configured
// baseline when the sheet is missing or names no team.
func (r *StandingRepository) LoadBaseline(ctx context.Context) (standing.Baseline, error) {
	rows, err := r.wb.read(ctx, r.wb.cfg.BaselineSheet)
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
	rows, err := r.wb.read(ctx, r.wb.cfg.StandingsSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []standing.Standing{}, nil
	}
	return standing.DecodeTable(rows[0], rows[1:]), nil
}

func (r *StandingRepository) ReplaceAll(ctx context.Context, table []standing.Standing) error {
	sheet := r.wb.cfg.StandingsSheet
	rows := make([][]string, 0, len(table)+1)
	rows = append(rows, standing.Header)
	for _, item := range table {
		rows = append(rows, item.Cells())
	}

	columns := len(standing.Header)
	return r.wb.write(ctx, sheet, rows, func(f *excelize.File) error {
		if err := styleHeader(f, sheet, columns); err != nil {
			return err
		}
		highlight, err := highlightStyle(f)
		if err != nil {
			return err
		}
		for i, item := range table {
			if !item.Highlight {
				continue
			}
			if err := styleRow(f, sheet, i+2, columns, highlight); err != nil {
				return err
			}
		}
		return nil
	})
}
