package sheets

import (
	"context"
	"fmt"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
	gsheets "google.golang.org/api/sheets/v4"
)

type FixtureRepository struct {
	store *store
}

func NewFixtureRepository(api API, cfg Config, logger *logging.Logger) *FixtureRepository {
	return &FixtureRepository{store: newStore(api, cfg, logger)}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	rows, err := r.store.read(ctx, r.store.cfg.FixturesTab)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []fixture.Fixture{}, nil
	}

	layout, err := fixture.NewLayout(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", usecase.ErrConfiguration, r.store.cfg.FixturesTab, err)
	}

	out := make([]fixture.Fixture, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		out = append(out, layout.Decode(i+1, cells))
	}
	return out, nil
}

// ReplaceAll rewrites every data row under the existing header. Columns the
// service does not own keep their values through Extra.
func (r *FixtureRepository) ReplaceAll(ctx context.Context, fixtures []fixture.Fixture) error {
	tab := r.store.cfg.FixturesTab
	existing, err := r.store.read(ctx, tab)
	if err != nil {
		return err
	}

	layout := fixture.DefaultLayout()
	if len(existing) > 0 {
		layout, err = fixture.NewLayout(existing[0])
		if err != nil {
			return fmt.Errorf("%w: sheet %q: %w", usecase.ErrConfiguration, tab, err)
		}
	}

	rows := make([][]string, 0, len(fixtures)+1)
	rows = append(rows, layout.Header)
	for _, item := range fixtures {
		rows = append(rows, layout.Encode(item))
	}

	sheetID, err := r.store.write(ctx, tab, rows)
	if err != nil {
		return err
	}
	r.store.style(ctx, tab, []*gsheets.Request{
		headerStyle(sheetID, len(layout.Header)),
		freezeHeader(sheetID),
	})
	return nil
}
