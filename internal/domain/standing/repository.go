package standing

import "context"

type Repository interface {
	// LoadBaseline returns the store's baseline, or the configured one when
	// the store carries none.
	LoadBaseline(ctx context.Context) (Baseline, error)
	List(ctx context.Context) ([]Standing, error)
	ReplaceAll(ctx context.Context, standings []Standing) error
}
