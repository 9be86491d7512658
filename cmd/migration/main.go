package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/riskibarqy/club-fixtures/db"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/pgdsn"
)

const usage = `usage: migration <command> [arg]

commands:
  up            apply every pending migration
  down [n]      roll back n migrations (default 1)
  version       print the current version and dirty flag
  force <v>     mark version v as applied without running it
  goto <v>      migrate up or down to version v

env:
  DB_URL                              postgres connection string (required)
  DB_DISABLE_PREPARED_BINARY_RESULT   default true`

func main() {
	logger := logging.New(logging.LevelInfo, os.Stderr).Named("migration")
	defer func() { _ = logger.Sync() }()

	if err := run(os.Args[1:], logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	dsn := strings.TrimSpace(os.Getenv("DB_URL"))
	if dsn == "" {
		return errors.New("DB_URL is required")
	}
	disablePrepared := true
	if raw := strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
		}
		disablePrepared = v
	}

	src, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, pgdsn.Prepare(dsn, disablePrepared))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator failed", "error", err)
		}
	}()

	cmd, arg := strings.ToLower(strings.TrimSpace(args[0])), ""
	if len(args) > 1 {
		arg = strings.TrimSpace(args[1])
	}

	switch cmd {
	case "up":
		return report(logger, m.Up(), "migrations applied")
	case "down":
		steps := 1
		if arg != "" {
			if steps, err = strconv.Atoi(arg); err != nil || steps <= 0 {
				return fmt.Errorf("down steps must be a positive integer, got %q", arg)
			}
		}
		return report(logger, m.Steps(-steps), "migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
		return nil
	case "force":
		version, err := strconv.Atoi(arg)
		if err != nil || version < -1 {
			return fmt.Errorf("force needs a version (or -1 for none), got %q", arg)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Info("version forced", "version", version)
		return nil
	case "goto":
		target, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("goto needs a target version, got %q", arg)
		}
		return report(logger, m.Migrate(uint(target)), "migrated", "version", target)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func report(logger *logging.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}
