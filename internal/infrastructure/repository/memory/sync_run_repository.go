package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
)

const maxRetainedRuns = 200

type SyncRunRepository struct {
	mu   sync.RWMutex
	runs map[string]syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{runs: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Upsert(_ context.Context, run syncrun.Run) error {
	run.Summary = maps.Clone(run.Summary)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[run.ID] = run
	if len(r.runs) > maxRetainedRuns {
		oldest := r.sortedLocked()[len(r.runs)-1]
		delete(r.runs, oldest.ID)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, id string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return syncrun.Run{}, false, nil
	}
	run.Summary = maps.Clone(run.Summary)
	return run, true, nil
}

func (r *SyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.sortedLocked()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Summary = maps.Clone(out[i].Summary)
	}
	return out, nil
}

// sortedLocked returns runs newest first.
func (r *SyncRunRepository) sortedLocked() []syncrun.Run {
	out := make([]syncrun.Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
