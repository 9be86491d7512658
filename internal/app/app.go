package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/club-fixtures/external/icsfeed"
	"github.com/riskibarqy/club-fixtures/external/rfugms"
	"github.com/riskibarqy/club-fixtures/internal/config"
	"github.com/riskibarqy/club-fixtures/internal/domain/admin"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/infrastructure/account/google"
	"github.com/riskibarqy/club-fixtures/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/club-fixtures/internal/interfaces/httpapi"
	"github.com/riskibarqy/club-fixtures/internal/platform/cache"
	idgen "github.com/riskibarqy/club-fixtures/internal/platform/id"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/riskibarqy/club-fixtures/internal/scheduler"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

const userAgent = "club-fixtures/1.0"

// App is the wired service graph shared by the API and the sync CLI.
type App struct {
	Server    *http.Server
	Sync      *usecase.SyncService
	Scheduler *scheduler.Scheduler

	stores *stores
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	leagueCfg, err := league.New(cfg.LeagueSettings())
	if err != nil {
		return nil, fmt.Errorf("build league config: %w", err)
	}

	var store *cache.Store
	var invalidator usecase.CacheInvalidator
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		invalidator = store
	}

	st, err := openStores(ctx, cfg, leagueCfg, store, logger)
	if err != nil {
		return nil, err
	}

	feedClient := icsfeed.NewClient(icsfeed.ClientConfig{
		Timeout:        cfg.FeedTimeout,
		UserAgent:      userAgent,
		Location:       leagueCfg.Location(),
		DefaultTime:    leagueCfg.DefaultTime(),
		Logger:         logger,
		CircuitBreaker: resilience.DefaultBreakerConfig(),
	})

	standingsSvc := usecase.NewStandingsService(st.fixtures, st.standings, leagueCfg, logger)
	fixtureSyncSvc := usecase.NewFixtureSyncService(
		st.fixtures,
		feedClient,
		leagueCfg,
		usecase.FixtureSyncConfig{FetchConcurrency: cfg.FeedFetchConcurrency},
		logger,
	)

	var resultsSyncSvc *usecase.ResultsSyncService
	if cfg.RFUGMSEnabled {
		gmsClient := rfugms.NewClient(rfugms.ClientConfig{
			BaseURL:    cfg.RFUGMSBaseURL,
			TeamID:     cfg.RFUGMSTeamID,
			ClubID:     cfg.RFUGMSClubID,
			Timeout:    cfg.RFUGMSTimeout,
			MaxRetries: cfg.RFUGMSMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.BreakerConfig{
				Enabled:          cfg.RFUGMSCircuitEnabled,
				FailureThreshold: cfg.RFUGMSCircuitFailureCount,
				OpenTimeout:      cfg.RFUGMSCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RFUGMSCircuitHalfOpenMaxReq,
			},
		})
		resultsSyncSvc = usecase.NewResultsSyncService(st.fixtures, gmsClient, leagueCfg, logger)
	} else {
		logger.Info("rfu gms results disabled", "reason", "RFU_GMS_ENABLED=false")
	}

	syncSvc := usecase.NewSyncService(
		fixtureSyncSvc,
		resultsSyncSvc,
		standingsSvc,
		st.runs,
		idgen.NewUUIDGenerator(),
		invalidator,
		logger,
	)

	jobQueue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		jobQueue = jobqueue.NewQStashPublisher(jobqueue.Config{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Breaker: resilience.BreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	feedSvc := usecase.NewFeedService(st.fixtures, st.standings, leagueCfg, store, logger)
	fixtureAdminSvc := usecase.NewFixtureAdminService(
		st.fixtures,
		standingsSvc,
		jobQueue,
		invalidator,
		leagueCfg,
		usecase.FixtureAdminConfig{QueueStandings: cfg.QStashEnabled},
		logger,
	)
	overviewSvc := usecase.NewAdminOverviewService(st.fixtures, st.standings, st.runs, syncSvc, store, leagueCfg.Location())

	var verifier admin.Verifier
	if len(cfg.AdminAllowedEmails) > 0 {
		verifier = google.NewVerifier(
			&http.Client{Timeout: cfg.GoogleAuthTimeout},
			google.Config{
				ClientID:      cfg.GoogleClientID,
				AllowedEmails: cfg.AdminAllowedEmails,
				CacheTTL:      cfg.CacheTTL,
				Breaker:       resilience.DefaultBreakerConfig(),
			},
			logger,
		)
	} else {
		logger.Warn("admin api disabled", "reason", "ADMIN_ALLOWED_EMAILS empty")
	}

	handler := httpapi.NewHandler(feedSvc, syncSvc, fixtureAdminSvc, standingsSvc, overviewSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		st.close(logger)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	out := &App{
		Server: server,
		Sync:   syncSvc,
		stores: st,
		logger: logger,
	}

	if cfg.SyncScheduleEnabled {
		sched, err := scheduler.New(syncSvc, scheduler.Config{
			Weekday:  cfg.SyncWeekday,
			Hour:     cfg.SyncHour,
			Location: leagueCfg.Location(),
		}, logger)
		if err != nil {
			st.close(logger)
			return nil, fmt.Errorf("build scheduler: %w", err)
		}
		out.Scheduler = sched
	}

	logger.Info("app wired",
		"store", cfg.StoreDriver,
		"feeds", len(leagueCfg.Feeds()),
		"results_enabled", cfg.RFUGMSEnabled,
		"cache_enabled", cfg.CacheEnabled,
		"schedule_enabled", cfg.SyncScheduleEnabled,
		"queue_enabled", cfg.QStashEnabled,
	)

	return out, nil
}

// Close releases the store connections.
func (a *App) Close() {
	if a == nil || a.stores == nil {
		return
	}
	a.stores.close(a.logger)
}
