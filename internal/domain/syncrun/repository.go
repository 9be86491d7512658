package syncrun

import "context"

type Repository interface {
	// Upsert inserts or replaces the run with the same ID.
	Upsert(ctx context.Context, run Run) error
	GetByID(ctx context.Context, id string) (Run, bool, error)
	// ListRecent returns newest first.
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}
