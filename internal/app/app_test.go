package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-fixtures/internal/config"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
)

func TestNew_MemoryStoreServesPublicRoutes(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("STORE_DRIVER", config.StoreMemory)
	t.Setenv("RFU_GMS_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Sync)
	require.NotNil(t, a.Scheduler)
	require.Equal(t, ":8080", a.Server.Addr)

	for _, path := range []string{"/healthz", "/v1/fixtures", "/v1/standings", "/v1/fixtures.ics"} {
		rec := httptest.NewRecorder()
		a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	// Without an allowlist the admin surface is unavailable rather than open.
	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/admin/overview", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNew_ScheduleDisabled(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("SYNC_SCHEDULE_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	require.Nil(t, a.Scheduler)
}

func TestNew_WorkbookStore(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("STORE_DRIVER", config.StoreWorkbook)
	t.Setenv("WORKBOOK_PATH", t.TempDir()+"/fixtures.xlsx")

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/standings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_SheetsStoreNeedsCredentials(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("STORE_DRIVER", config.StoreSheets)
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet-1")
	t.Setenv("SHEETS_CREDENTIALS_FILE", "")
	t.Setenv("SHEETS_CREDENTIALS_JSON", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
