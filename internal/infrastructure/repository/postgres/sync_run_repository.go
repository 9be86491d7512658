package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	qb "github.com/riskibarqy/club-fixtures/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Upsert(ctx context.Context, run syncrun.Run) error {
	id := strings.TrimSpace(run.ID)
	if id == "" {
		return fmt.Errorf("sync run id is required")
	}
	summary, err := marshalJSONMap(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal sync run summary: %w", err)
	}

	model := syncRunInsertModel{
		ID:         id,
		Kind:       string(run.Kind),
		Trigger:    string(run.Trigger),
		Status:     string(run.Status),
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt,
		Summary:    summary,
		Error:      optionalString(run.Error),
	}
	query, args, err := qb.InsertModel("sync_runs", model, `ON CONFLICT (id)
DO UPDATE SET
    status = EXCLUDED.status,
    finished_at = EXCLUDED.finished_at,
    summary = EXCLUDED.summary,
    error = EXCLUDED.error,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync run id=%s status=%s: %w", id, run.Status, err)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, id string) (syncrun.Run, bool, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		Where(qb.Eq("id", strings.TrimSpace(id))).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build select sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("select sync run id=%s: %w", id, err)
	}
	return syncRunFromRow(row), true, nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Run, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}

	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncRunFromRow(row))
	}
	return out, nil
}

func syncRunFromRow(row syncRunTableModel) syncrun.Run {
	run := syncrun.Run{
		ID:         row.ID,
		Kind:       syncrun.Kind(row.Kind),
		Trigger:    syncrun.Trigger(row.Trigger),
		Status:     syncrun.Status(row.Status),
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		Summary:    decodeJSONMap[any](row.Summary),
	}
	if row.Error != nil {
		run.Error = *row.Error
	}
	return run
}
