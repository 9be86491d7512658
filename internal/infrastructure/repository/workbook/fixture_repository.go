package workbook

import (
	"context"
	"fmt"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
	"github.com/xuri/excelize/v2"
)

type FixtureRepository struct {
	wb *Workbook
}

func NewFixtureRepository(wb *Workbook) *FixtureRepository {
	return &FixtureRepository{wb: wb}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	sheet := r.wb.cfg.FixturesSheet
	rows, err := r.wb.read(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []fixture.Fixture{}, nil
	}

	layout, err := fixture.NewLayout(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", usecase.ErrConfiguration, sheet, err)
	}
	out := make([]fixture.Fixture, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		out = append(out, layout.Decode(i+1, cells))
	}
	return out, nil
}

func (r *FixtureRepository) ReplaceAll(ctx context.Context, fixtures []fixture.Fixture) error {
	sheet := r.wb.cfg.FixturesSheet
	existing, err := r.wb.read(ctx, sheet)
	if err != nil {
		return err
	}
	layout := fixture.DefaultLayout()
	if len(existing) > 0 {
		layout, err = fixture.NewLayout(existing[0])
		if err != nil {
			return fmt.Errorf("%w: sheet %q: %w", usecase.ErrConfiguration, sheet, err)
		}
	}

	rows := make([][]string, 0, len(fixtures)+1)
	rows = append(rows, layout.Header)
	for _, item := range fixtures {
		rows = append(rows, layout.Encode(item))
	}
	return r.wb.write(ctx, sheet, rows, func(f *excelize.File) error {
		return styleHeader(f, sheet, len(layout.Header))
	})
}
