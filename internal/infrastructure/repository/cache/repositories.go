// Package cache wraps repositories backed by remote stores so repeated
// reads of slow-changing tables skip the round trip.
package cache

import (
	"context"

	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	basecache "github.com/riskibarqy/club-fixtures/internal/platform/cache"
)

const (
	KeyPrefixBaseline = "baseline:"
	keyBaseline       = KeyPrefixBaseline + "standings"
)

// StandingRepository caches LoadBaseline. The table itself is read through
// on every call since syncs and admin edits rewrite it.
type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) LoadBaseline(ctx context.Context) (standing.Baseline, error) {
	baseline, err := basecache.Load(ctx, r.cache, keyBaseline, r.next.LoadBaseline)
	if err != nil {
		return standing.Baseline{}, err
	}
	return standing.Baseline{
		Cutover: baseline.Cutover,
		Rows:    append([]standing.BaselineRow(nil), baseline.Rows...),
	}, nil
}

func (r *StandingRepository) List(ctx context.Context) ([]standing.Standing, error) {
	return r.next.List(ctx)
}

func (r *StandingRepository) ReplaceAll(ctx context.Context, table []standing.Standing) error {
	return r.next.ReplaceAll(ctx, table)
}
