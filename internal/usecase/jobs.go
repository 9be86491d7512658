package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Internal job endpoints, relative to the API base URL.
const (
	JobPathSyncFixtures         = "/v1/internal/jobs/sync-fixtures"
	JobPathSyncResults          = "/v1/internal/jobs/sync-results"
	JobPathRecalculateStandings = "/v1/internal/jobs/recalculate-standings"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// CacheInvalidator drops cached public reads after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, prefixes ...string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...string) {}

// Cache key prefixes shared by the read side and the writers.
const (
	CachePrefixFixtures  = "fixtures:"
	CachePrefixStandings = "standings:"
	CachePrefixOverview  = "overview:"
)

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// jobDedupID builds a QStash deduplication id that collapses repeated
// requests inside the same minute.
func jobDedupID(kind, reason string, at time.Time) string {
	parts := []string{kind, reason, at.UTC().Format("200601021504")}
	raw := strings.Join(parts, "-")
	return dedupUnsafeCharRegex.ReplaceAllString(raw, "_")
}

// StandingsJobPayload is the body of a queued standings recalculation.
type StandingsJobPayload struct {
	Reason string `json:"reason"`
}

const (
	StandingsRecalculated = "recalculated"
	StandingsQueued       = "queued"
	StandingsFailed       = "failed"
)

// standingsRefresher recalculates standings after an admin edit, either on
// the request path or through the job queue.
type standingsRefresher struct {
	standings *StandingsService
	queue     JobQueue
	queued    bool
	now       func() time.Time
}

type refreshOutcome struct {
	Mode  string
	Teams int
	Err   error
}

func (r standingsRefresher) refresh(ctx context.Context, reason string) refreshOutcome {
	if r.queued && r.queue != nil {
		now := time.Now
		if r.now != nil {
			now = r.now
		}
		err := r.queue.Enqueue(ctx, JobPathRecalculateStandings, StandingsJobPayload{Reason: reason}, 0, jobDedupID("standings", reason, now()))
		if err == nil {
			return refreshOutcome{Mode: StandingsQueued}
		}
		// fall through to inline recalculation
	}

	if r.standings == nil {
		return refreshOutcome{Mode: StandingsFailed, Err: ErrConfiguration}
	}
	table, err := r.standings.Recalculate(ctx)
	if err != nil {
		return refreshOutcome{Mode: StandingsFailed, Err: err}
	}
	return refreshOutcome{Mode: StandingsRecalculated, Teams: len(table)}
}
