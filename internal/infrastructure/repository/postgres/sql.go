package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	qb "github.com/riskibarqy/club-fixtures/internal/platform/querybuilder"
)

// insertBatchRows keeps a batch well under PostgreSQL's 65535 bind limit
// for the widest model (fixtures, 13 columns).
const insertBatchRows = 200

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullIntToPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func ptrToNullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func marshalJSONMap[V any](payload map[string]V) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeJSONMap[V any](raw string) map[string]V {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" || raw == "null" {
		return nil
	}
	var out map[string]V
	if err := jsoniter.UnmarshalFromString(raw, &out); err != nil {
		return nil
	}
	return out
}

// insertBatches writes models as multi-row INSERTs inside tx. An empty
// slice is a no-op so callers can clear a table to nothing.
func insertBatches[T any](ctx context.Context, tx *sqlx.Tx, table string, models []T) error {
	for batch := range slices.Chunk(models, insertBatchRows) {
		query, args, err := qb.InsertModels(table, batch, "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %d %s rows: %w", len(batch), table, err)
		}
	}
	return nil
}
