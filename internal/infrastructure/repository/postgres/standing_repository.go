package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	qb "github.com/riskibarqy/club-fixtures/internal/platform/querybuilder"
)

type StandingRepository struct {
	db       *sqlx.DB
	fallback standing.Baseline
}

func NewStandingRepository(db *sqlx.DB, fallback standing.Baseline) *StandingRepository {
	return &StandingRepository{db: db, fallback: fallback}
}

// LoadBaseline reads standings_baseline; an empty table means the
// configured baseline applies.
func (r *StandingRepository) LoadBaseline(ctx context.Context) (standing.Baseline, error) {
	query, args, err := qb.Select("*").From("standings_baseline").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return standing.Baseline{}, fmt.Errorf("build select standings baseline query: %w", err)
	}

	var rows []baselineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return standing.Baseline{}, fmt.Errorf("select standings baseline: %w", err)
	}
	if len(rows) == 0 {
		return standing.Baseline{
			Cutover: r.fallback.Cutover,
			Rows:    append([]standing.BaselineRow(nil), r.fallback.Rows...),
		}, nil
	}

	out := standing.Baseline{Rows: make([]standing.BaselineRow, 0, len(rows))}
	for _, row := range rows {
		if out.Cutover == "" {
			out.Cutover = strings.TrimSpace(row.Cutover)
		}
		out.Rows = append(out.Rows, standing.BaselineRow{
			Team:          row.Team,
			Played:        row.Played,
			Won:           row.Won,
			Drawn:         row.Drawn,
			Lost:          row.Lost,
			PointsFor:     row.PointsFor,
			PointsAgainst: row.PointsAgainst,
			TryBonus:      row.TryBonus,
			LosingBonus:   row.LosingBonus,
			Points:        row.Points,
		})
	}
	if out.Cutover == "" {
		out.Cutover = r.fallback.Cutover
	}
	return out, nil
}

func (r *StandingRepository) List(ctx context.Context) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(qb.IsNull("deleted_at")).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			Position:         row.Position,
			Team:             row.Team,
			Played:           row.Played,
			Won:              row.Won,
			Drawn:            row.Drawn,
			Lost:             row.Lost,
			PointsFor:        row.PointsFor,
			PointsAgainst:    row.PointsAgainst,
			PointsDifference: row.PointsDifference,
			TryBonus:         row.TryBonus,
			LosingBonus:      row.LosingBonus,
			BonusPoints:      row.BonusPoints,
			Points:           row.Points,
			Highlight:        row.Highlight,
		})
	}
	return out, nil
}

func (r *StandingRepository) ReplaceAll(ctx context.Context, table []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("standings").
		SetExpr("deleted_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	models := make([]standingInsertModel, 0, len(table))
	for _, item := range table {
		models = append(models, standingInsertModel{
			Position:         item.Position,
			Team:             strings.TrimSpace(item.Team),
			Played:           item.Played,
			Won:              item.Won,
			Drawn:            item.Drawn,
			Lost:             item.Lost,
			PointsFor:        item.PointsFor,
			PointsAgainst:    item.PointsAgainst,
			PointsDifference: item.PointsDifference,
			TryBonus:         item.TryBonus,
			LosingBonus:      item.LosingBonus,
			BonusPoints:      item.BonusPoints,
			Points:           item.Points,
			Highlight:        item.Highlight,
		})
	}
	if err := insertBatches(ctx, tx, "standings", models); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
