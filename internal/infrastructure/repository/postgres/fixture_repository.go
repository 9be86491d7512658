package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	qb "github.com/riskibarqy/club-fixtures/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.IsNull("deleted_at")).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for i, row := range rows {
		out = append(out, fixtureFromRow(i+1, row))
	}
	return out, nil
}

// ReplaceAll soft-deletes the live table and inserts fixtures in order, in
// one transaction.
func (r *FixtureRepository) ReplaceAll(ctx context.Context, fixtures []fixture.Fixture) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace fixtures: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("fixtures").
		SetExpr("deleted_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear fixtures query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear fixtures: %w", err)
	}

	models := make([]fixtureInsertModel, 0, len(fixtures))
	for i, item := range fixtures {
		model, err := fixtureToInsertModel(i+1, item)
		if err != nil {
			return err
		}
		models = append(models, model)
	}
	if err := insertBatches(ctx, tx, "fixtures", models); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace fixtures tx: %w", err)
	}
	return nil
}

func fixtureFromRow(position int, row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		Row:         position,
		Date:        row.MatchDate,
		Time:        row.KickoffTime,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		Venue:       row.Venue,
		Competition: row.Competition,
		Status:      row.Status,
		HomeScore:   nullIntToPtr(row.HomeScore),
		AwayScore:   nullIntToPtr(row.AwayScore),
		HomeBP:      nullIntToPtr(row.HomeBP),
		AwayBP:      nullIntToPtr(row.AwayBP),
		Extra:       decodeJSONMap[string](row.Extra),
	}
}

func fixtureToInsertModel(position int, item fixture.Fixture) (fixtureInsertModel, error) {
	extra, err := marshalJSONMap(item.Extra)
	if err != nil {
		return fixtureInsertModel{}, fmt.Errorf("marshal fixture extra columns: %w", err)
	}
	return fixtureInsertModel{
		Position:    position,
		MatchDate:   item.Date,
		KickoffTime: item.Time,
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		Venue:       item.Venue,
		Competition: item.Competition,
		Status:      item.Status,
		HomeScore:   ptrToNullInt(item.HomeScore),
		AwayScore:   ptrToNullInt(item.AwayScore),
		HomeBP:      ptrToNullInt(item.HomeBP),
		AwayBP:      ptrToNullInt(item.AwayBP),
		Extra:       extra,
	}, nil
}
