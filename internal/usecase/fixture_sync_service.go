package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
)

// ExternalFixture is one fixture read from a calendar feed.
type ExternalFixture struct {
	Source      string
	Date        string
	Time        string
	HomeTeam    string
	AwayTeam    string
	Venue       string
	Competition string
	Status      string
}

type FixtureFeedProvider interface {
	FetchFixtures(ctx context.Context, source league.FeedSource) ([]ExternalFixture, error)
}

type FixtureSyncConfig struct {
	// FetchConcurrency bounds parallel feed downloads; 1 fetches one feed at
	// a time.
	FetchConcurrency int
}

type FeedFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

type FixtureSyncResult struct {
	Fetched            int           `json:"fetched"`
	Added              int           `json:"added"`
	Updated            int           `json:"updated"`
	Skipped            int           `json:"skipped"`
	RemovedDuplicates  int           `json:"removed_duplicates"`
	TotalRows          int           `json:"total_rows"`
	FeedSourcesTotal   int           `json:"feed_sources_total"`
	FeedSourcesSuccess int           `json:"feed_sources_success"`
	FeedSourcesFailed  int           `json:"feed_sources_failed"`
	FetchedRaw         int           `json:"fetched_raw"`
	FetchedDeduped     int           `json:"fetched_deduped"`
	FailedSources      []FeedFailure `json:"failed_sources,omitempty"`
}

type FixtureSyncService struct {
	fixtureRepo fixture.Repository
	feeds       FixtureFeedProvider
	league      league.Config
	cfg         FixtureSyncConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewFixtureSyncService(
	fixtureRepo fixture.Repository,
	feeds FixtureFeedProvider,
	leagueCfg league.Config,
	cfg FixtureSyncConfig,
	logger *logging.Logger,
) *FixtureSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}

	return &FixtureSyncService{
		fixtureRepo: fixtureRepo,
		feeds:       feeds,
		league:      leagueCfg,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

type feedFetch struct {
	source league.FeedSource
	items  []ExternalFixture
	err    error
}

// Sync reconciles the fixtures table against the calendar feeds. A non-empty
// overrideURL replaces the configured feeds for this run.
func (s *FixtureSyncService) Sync(ctx context.Context, overrideURL string) (FixtureSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.Sync")
	defer span.End()

	sources := s.league.FeedSources(overrideURL)
	span.SetAttributes(attribute.Int("sync.feed_sources", len(sources)))
	if len(sources) == 0 {
		return FixtureSyncResult{}, fmt.Errorf("%w: no fixture feed sources configured", ErrConfiguration)
	}
	if s.feeds == nil {
		return FixtureSyncResult{}, fmt.Errorf("%w: fixture feed provider is not configured", ErrConfiguration)
	}

	fetched, err := s.fetchFeeds(ctx, sources)
	if err != nil {
		return FixtureSyncResult{}, err
	}

	result := FixtureSyncResult{FeedSourcesTotal: len(sources)}
	incoming := make([]ExternalFixture, 0)
	for _, feed := range fetched {
		if feed.err != nil {
			result.FeedSourcesFailed++
			result.FailedSources = append(result.FailedSources, FeedFailure{Source: feed.source.Name, Error: feed.err.Error()})
			s.logger.WarnContext(ctx, "fixture feed failed", "source", feed.source.Name, "error", feed.err)
			continue
		}
		result.FeedSourcesSuccess++
		incoming = append(incoming, feed.items...)
	}

	result.FetchedRaw = len(incoming)
	if len(incoming) == 0 {
		if result.FeedSourcesSuccess == 0 {
			return result, fmt.Errorf("%w: no fixtures could be loaded from any of %d feed sources", ErrDependencyUnavailable, len(sources))
		}
		return result, fmt.Errorf("no fixtures found in %d feed sources", len(sources))
	}

	deduped := dedupeIncomingFixtures(incoming, s.league.Aliases())
	result.FetchedDeduped = len(deduped)
	result.Fetched = len(deduped)

	stored, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list fixtures: %w", err)
	}

	rows, removed := dedupeStoredFixtures(stored, s.league.Aliases())
	result.RemovedDuplicates = removed

	rows, changes := applySchedule(scheduleInput{
		Rows:        rows,
		Incoming:    deduped,
		Teams:       seedTeamIndex(s.league.Aliases(), s.league.Roster(), rows),
		DefaultTime: s.league.DefaultTime(),
		Now:         s.now(),
		Location:    s.league.Location(),
	})
	result.Added = changes.Added
	result.Updated = changes.Updated
	result.Skipped = changes.Skipped

	sortFixtures(rows)
	renumberFixtures(rows)
	result.TotalRows = len(rows)

	if err := s.fixtureRepo.ReplaceAll(ctx, rows); err != nil {
		return result, fmt.Errorf("save fixtures: %w", err)
	}

	s.logger.InfoContext(ctx, "fixtures synced",
		"feeds_ok", result.FeedSourcesSuccess,
		"feeds_failed", result.FeedSourcesFailed,
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"removed_duplicates", result.RemovedDuplicates,
		"total_rows", result.TotalRows,
	)
	return result, nil
}

// fetchFeeds downloads every source on a bounded pool. Results keep the
// order of sources regardless of completion order.
func (s *FixtureSyncService) fetchFeeds(ctx context.Context, sources []league.FeedSource) ([]feedFetch, error) {
	out := make([]feedFetch, len(sources))

	pool, err := ants.NewPool(min(s.cfg.FetchConcurrency, len(sources)))
	if err != nil {
		return nil, fmt.Errorf("create feed worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, source := range sources {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			items, fetchErr := s.feeds.FetchFixtures(ctx, source)
			for j := range items {
				if strings.TrimSpace(items[j].Source) == "" {
					items[j].Source = source.Name
				}
			}
			out[i] = feedFetch{source: source, items: items, err: fetchErr}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit feed fetch: %w", err)
		}
	}
	workers.Wait()

	return out, nil
}
