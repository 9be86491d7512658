package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	gsheets "google.golang.org/api/sheets/v4"
)

type Config struct {
	SpreadsheetID string
	FixturesTab   string
	StandingsTab  string
	BaselineTab   string
}

func (c Config) normalize() Config {
	c.SpreadsheetID = strings.TrimSpace(c.SpreadsheetID)
	if strings.TrimSpace(c.FixturesTab) == "" {
		c.FixturesTab = "Fixtures"
	}
	if strings.TrimSpace(c.StandingsTab) == "" {
		c.StandingsTab = "Standings"
	}
	if strings.TrimSpace(c.BaselineTab) == "" {
		c.BaselineTab = "Standings Baseline"
	}
	return c
}

// store holds what the fixture and standing repositories share: the API,
// the spreadsheet and the tab id cache.
type store struct {
	api    API
	cfg    Config
	logger *logging.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func newStore(api API, cfg Config, logger *logging.Logger) *store {
	if logger == nil {
		logger = logging.Default()
	}
	return &store{api: api, cfg: cfg.normalize(), logger: logger}
}

func tabRange(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// read returns the tab's rows as strings; a missing tab reads as empty.
func (s *store) read(ctx context.Context, tab string) ([][]string, error) {
	ids, err := s.tabs(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := ids[tab]; !ok {
		return nil, nil
	}

	values, err := s.api.Values(ctx, s.cfg.SpreadsheetID, tabRange(tab))
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", tab, err)
	}

	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		out[i] = cells
	}
	return out, nil
}

// write replaces the whole tab with rows, creating the tab when missing.
func (s *store) write(ctx context.Context, tab string, rows [][]string) (int64, error) {
	sheetID, err := s.ensureTab(ctx, tab)
	if err != nil {
		return 0, err
	}

	if err := s.api.Clear(ctx, s.cfg.SpreadsheetID, tabRange(tab)); err != nil {
		return 0, fmt.Errorf("clear sheet %q: %w", tab, err)
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	if err := s.api.Write(ctx, s.cfg.SpreadsheetID, tabRange(tab)+"!A1", values); err != nil {
		return 0, fmt.Errorf("write sheet %q: %w", tab, err)
	}
	return sheetID, nil
}

// style applies formatting; failures are logged since the data is already
// saved.
func (s *store) style(ctx context.Context, tab string, requests []*gsheets.Request) {
	if err := s.api.BatchUpdate(ctx, s.cfg.SpreadsheetID, requests); err != nil {
		s.logger.WarnContext(ctx, "style sheet failed", "tab", tab, "error", err)
	}
}

func (s *store) tabs(ctx context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sheetIDs != nil {
		return s.sheetIDs, nil
	}
	ids, err := s.api.SheetIDs(ctx, s.cfg.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("list sheet tabs: %w", err)
	}
	s.sheetIDs = ids
	return ids, nil
}

func (s *store) ensureTab(ctx context.Context, tab string) (int64, error) {
	ids, err := s.tabs(ctx)
	if err != nil {
		return 0, err
	}
	if id, ok := ids[tab]; ok {
		return id, nil
	}

	err = s.api.BatchUpdate(ctx, s.cfg.SpreadsheetID, []*gsheets.Request{{
		AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: tab}},
	}})
	if err != nil {
		return 0, fmt.Errorf("add sheet %q: %w", tab, err)
	}
	s.logger.InfoContext(ctx, "sheet tab created", "tab", tab)

	s.mu.Lock()
	s.sheetIDs = nil
	s.mu.Unlock()

	ids, err = s.tabs(ctx)
	if err != nil {
		return 0, err
	}
	id, ok := ids[tab]
	if !ok {
		return 0, fmt.Errorf("sheet %q missing after creation", tab)
	}
	return id, nil
}
