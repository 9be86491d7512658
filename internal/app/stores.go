package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/club-fixtures/internal/config"
	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	cacherepo "github.com/riskibarqy/club-fixtures/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/club-fixtures/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-fixtures/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/club-fixtures/internal/infrastructure/repository/sheets"
	"github.com/riskibarqy/club-fixtures/internal/infrastructure/repository/workbook"
	"github.com/riskibarqy/club-fixtures/internal/platform/cache"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/pgdsn"
)

// stores groups the three repositories behind one STORE_DRIVER. Only the
// postgres driver persists sync runs; the others keep them in memory.
type stores struct {
	fixtures  fixture.Repository
	standings standing.Repository
	runs      syncrun.Repository
	db        *sqlx.DB
}

func openStores(ctx context.Context, cfg config.Config, leagueCfg league.Config, store *cache.Store, logger *logging.Logger) (*stores, error) {
	baseline := leagueCfg.Baseline()
	out := &stores{}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		out.fixtures = memory.NewFixtureRepository(nil)
		out.standings = memory.NewStandingRepository(baseline)
		out.runs = memory.NewSyncRunRepository()

	case config.StoreSheets:
		api, err := sheets.NewGoogleAPI(ctx, sheets.CredentialsConfig{
			File: cfg.SheetsCredentialsFile,
			JSON: cfg.SheetsCredentialsJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("open sheets store: %w", err)
		}
		sheetsCfg := sheets.Config{
			SpreadsheetID: cfg.SheetsSpreadsheetID,
			FixturesTab:   cfg.SheetsFixturesTab,
			StandingsTab:  cfg.SheetsStandingsTab,
			BaselineTab:   cfg.SheetsBaselineTab,
		}
		out.fixtures = sheets.NewFixtureRepository(api, sheetsCfg, logger)
		out.standings = sheets.NewStandingRepository(api, sheetsCfg, baseline, logger)
		out.runs = memory.NewSyncRunRepository()

	case config.StoreWorkbook:
		wb, err := workbook.New(workbook.Config{
			Path:           cfg.WorkbookPath,
			FixturesSheet:  cfg.SheetsFixturesTab,
			StandingsSheet: cfg.SheetsStandingsTab,
			BaselineSheet:  cfg.SheetsBaselineTab,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("open workbook store: %w", err)
		}
		out.fixtures = workbook.NewFixtureRepository(wb)
		out.standings = workbook.NewStandingRepository(wb, baseline)
		out.runs = memory.NewSyncRunRepository()

	case config.StorePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.db = db
		out.fixtures = postgres.NewFixtureRepository(db)
		out.standings = postgres.NewStandingRepository(db, baseline)
		out.runs = postgres.NewSyncRunRepository(db)

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	// The baseline only changes by hand, so remote reads of it are cached.
	if store != nil && cfg.StoreDriver != config.StoreMemory {
		out.standings = cacherepo.NewStandingRepository(out.standings, store)
	}

	logger.Info("store opened", "driver", cfg.StoreDriver)
	return out, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := pgdsn.Prepare(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(pgdsn.DatabaseName(dsn)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s *stores) close(logger *logging.Logger) {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.Warn("close postgres failed", "error", err)
	}
}
