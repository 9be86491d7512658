package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "club-fixtures-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("unexpected store driver: %q", cfg.StoreDriver)
	}
	if cfg.SyncWeekday != time.Monday || cfg.SyncHour != 6 {
		t.Fatalf("unexpected schedule: %s at %d", cfg.SyncWeekday, cfg.SyncHour)
	}
	if cfg.SyncTimeZone != "Europe/London" {
		t.Fatalf("unexpected time zone: %q", cfg.SyncTimeZone)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
	if len(cfg.Feeds) != 12 {
		t.Fatalf("expected 12 default feeds, got %d", len(cfg.Feeds))
	}
	if cfg.Feeds[2].Name != "Broadstreet" || cfg.Feeds[2].URL != "webcal://ics.ecal.com/ecal-sub/698b2ee8e21aff00022f970d/RFU.ics" {
		t.Fatalf("unexpected Broadstreet feed: %+v", cfg.Feeds[2])
	}
	if cfg.TeamAliases["Broadstreet RFC"] != "Broadstreet" {
		t.Fatalf("expected RFC alias, got %+v", cfg.TeamAliases)
	}
	if cfg.RFUGMSTeamID != "8763" || cfg.RFUGMSClubID != "589" {
		t.Fatalf("unexpected GMS ids: %s/%s", cfg.RFUGMSTeamID, cfg.RFUGMSClubID)
	}
	if cfg.StandingsPointsWin != 4 || cfg.StandingsPointsDraw != 2 || cfg.StandingsLosingBonusMargin != 7 {
		t.Fatalf("unexpected standings rules: %+v", cfg.LeagueSettings().Rules)
	}
	if cfg.StandingsBaseline.Cutover != "2026-02-14" || len(cfg.StandingsBaseline.Rows) != 12 {
		t.Fatalf("unexpected embedded baseline: %s with %d rows", cfg.StandingsBaseline.Cutover, len(cfg.StandingsBaseline.Rows))
	}
}

func TestLoad_SyncScheduleParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("weekday is case insensitive", func(t *testing.T) {
		t.Setenv("SYNC_WEEKDAY", "friday")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SyncWeekday != time.Friday {
			t.Fatalf("expected Friday, got %s", cfg.SyncWeekday)
		}
	})

	t.Run("unknown weekday falls back to monday", func(t *testing.T) {
		t.Setenv("SYNC_WEEKDAY", "someday")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SyncWeekday != time.Monday {
			t.Fatalf("expected Monday, got %s", cfg.SyncWeekday)
		}
	})

	t.Run("hour is clamped", func(t *testing.T) {
		t.Setenv("SYNC_HOUR", "31")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SyncHour != 23 {
			t.Fatalf("expected hour 23, got %d", cfg.SyncHour)
		}
	})

	t.Run("negative hour is clamped", func(t *testing.T) {
		t.Setenv("SYNC_HOUR", "-4")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SyncHour != 0 {
			t.Fatalf("expected hour 0, got %d", cfg.SyncHour)
		}
	})

	t.Run("invalid time zone", func(t *testing.T) {
		t.Setenv("SYNC_TIME_ZONE", "Mars/Olympus")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid SYNC_TIME_ZONE")
		}
	})
}

func TestLoad_FeedURLsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("keeps order and splits on first equals", func(t *testing.T) {
		t.Setenv("FEED_URLS", "Olney=https://feeds.example.com/a.ics?x=1, Stamford=webcal://feeds.example.com/b.ics")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.Feeds) != 2 {
			t.Fatalf("expected 2 feeds, got %d", len(cfg.Feeds))
		}
		if cfg.Feeds[0].Name != "Olney" || cfg.Feeds[0].URL != "https://feeds.example.com/a.ics?x=1" {
			t.Fatalf("unexpected first feed: %+v", cfg.Feeds[0])
		}
		if cfg.Feeds[1].Name != "Stamford" {
			t.Fatalf("unexpected second feed: %+v", cfg.Feeds[1])
		}
	})

	t.Run("invalid item", func(t *testing.T) {
		t.Setenv("FEED_URLS", "no-url-here")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid FEED_URLS")
		}
	})

	t.Run("aliases extend the defaults", func(t *testing.T) {
		t.Setenv("TEAM_ALIASES", "Broadstreet II=Broadstreet")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.TeamAliases["Broadstreet II"] != "Broadstreet" || cfg.TeamAliases["Olney RFC"] != "Olney" {
			t.Fatalf("unexpected aliases: %+v", cfg.TeamAliases)
		}
	})

	t.Run("concurrency must be positive", func(t *testing.T) {
		t.Setenv("FEED_FETCH_CONCURRENCY", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for FEED_FETCH_CONCURRENCY=0")
		}
	})
}

func TestLoad_StoreDriverRequirements(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}, wantErr: true},
		{name: "sheets without spreadsheet", env: map[string]string{"STORE_DRIVER": "sheets", "SHEETS_SPREADSHEET_ID": ""}, wantErr: true},
		{name: "sheets with spreadsheet", env: map[string]string{"STORE_DRIVER": "sheets", "SHEETS_SPREADSHEET_ID": "sheet-1"}},
		{name: "postgres without url", env: map[string]string{"STORE_DRIVER": "postgres", "DB_URL": ""}, wantErr: true},
		{name: "postgres with url", env: map[string]string{"STORE_DRIVER": "POSTGRES", "DB_URL": "postgres://localhost/fixtures"}},
		{name: "workbook default path", env: map[string]string{"STORE_DRIVER": "workbook"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})

	t.Run("custom ttl", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "false")
		t.Setenv("CACHE_TTL", "90s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CacheEnabled || cfg.CacheTTL != 90*time.Second {
			t.Fatalf("unexpected cache config: %v %s", cfg.CacheEnabled, cfg.CacheTTL)
		}
	})
}

func TestLoad_StandingsRules(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("STANDINGS_POINTS_WIN", "5")
		t.Setenv("STANDINGS_LOSING_BONUS_MARGIN", "5")
		t.Setenv("STANDINGS_HIGHLIGHT_TEAM", "Olney")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		rules := cfg.LeagueSettings().Rules
		if rules.Win != 5 || rules.LosingBonusMargin != 5 || rules.HighlightTeam != "Olney" {
			t.Fatalf("unexpected rules: %+v", rules)
		}
	})

	t.Run("draw above win", func(t *testing.T) {
		t.Setenv("STANDINGS_POINTS_DRAW", "6")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when draw points exceed win points")
		}
	})
}

func TestLoad_StandingsBaselineFile(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	dir := t.TempDir()

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(dir, "baseline.json")
		content := `{"cutover":"2026-03-01","rows":[{"team":"Olney","played":2,"won":2,"points":8}]}`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write baseline: %v", err)
		}
		t.Setenv("STANDINGS_BASELINE_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StandingsBaseline.Cutover != "2026-03-01" || len(cfg.StandingsBaseline.Rows) != 1 {
			t.Fatalf("unexpected baseline: %+v", cfg.StandingsBaseline)
		}
		if cfg.StandingsBaseline.Rows[0].Points != 8 {
			t.Fatalf("unexpected points: %d", cfg.StandingsBaseline.Rows[0].Points)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("STANDINGS_BASELINE_FILE", filepath.Join(dir, "missing.json"))
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for missing baseline file")
		}
	})

	t.Run("row without team", func(t *testing.T) {
		path := filepath.Join(dir, "blank.json")
		if err := os.WriteFile(path, []byte(`{"cutover":"2026-03-01","rows":[{"team":" "}]}`), 0o600); err != nil {
			t.Fatalf("write baseline: %v", err)
		}
		t.Setenv("STANDINGS_BASELINE_FILE", path)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for blank team")
		}
	})
}

func TestLoad_AdminRequiredInProd(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("ADMIN_ALLOWED_EMAILS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ADMIN_ALLOWED_EMAILS is empty in prod")
	}

	t.Setenv("ADMIN_ALLOWED_EMAILS", "secretary@broadstreetrfc.co.uk, fixtures@broadstreetrfc.co.uk")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.AdminAllowedEmails) != 2 {
		t.Fatalf("unexpected admin emails: %+v", cfg.AdminAllowedEmails)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `other=1,uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "club-fixtures-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "club-fixtures-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://broadstreetrfc.co.uk, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_QStashConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.QStashEnabled {
			t.Fatalf("expected QStashEnabled=false by default")
		}
	})

	t.Run("enabled requires token and target and internal token", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "")
		t.Setenv("QSTASH_TARGET_BASE_URL", "")
		t.Setenv("INTERNAL_JOB_TOKEN", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when QSTASH_ENABLED=true without required env")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://club-fixtures.fly.dev")
		t.Setenv("INTERNAL_JOB_TOKEN", "internal-job-token")
		t.Setenv("QSTASH_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.QStashEnabled || cfg.QStashRetries != 2 {
			t.Fatalf("unexpected qstash config: %v %d", cfg.QStashEnabled, cfg.QStashRetries)
		}
		if cfg.InternalJobToken != "internal-job-token" {
			t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
		}
	})
}

func TestLoad_RFUGMSConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("blank ids fall back to defaults", func(t *testing.T) {
		t.Setenv("RFU_GMS_ENABLED", "true")
		t.Setenv("RFU_GMS_TEAM_ID", " ")
		t.Setenv("RFU_GMS_CLUB_ID", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("blank ids fall back to defaults, got %v", err)
		}
		if cfg.RFUGMSTeamID != "8763" {
			t.Fatalf("unexpected team id: %q", cfg.RFUGMSTeamID)
		}
	})

	t.Run("negative retries", func(t *testing.T) {
		t.Setenv("RFU_GMS_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative RFU_GMS_MAX_RETRIES")
		}
	})

	t.Run("breaker failure count", func(t *testing.T) {
		t.Setenv("RFU_GMS_CIRCUIT_FAILURE_COUNT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for RFU_GMS_CIRCUIT_FAILURE_COUNT=0")
		}
	})
}
