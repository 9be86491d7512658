// Package workbook stores the fixtures and standings tables in a local
// .xlsx file laid out like the shared spreadsheet, one sheet per table.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type Config struct {
	Path           string
	FixturesSheet  string
	StandingsSheet string
	BaselineSheet  string
}

func (c Config) normalize() Config {
	c.Path = strings.TrimSpace(c.Path)
	if strings.TrimSpace(c.FixturesSheet) == "" {
		c.FixturesSheet = "Fixtures"
	}
	if strings.TrimSpace(c.StandingsSheet) == "" {
		c.StandingsSheet = "Standings"
	}
	if strings.TrimSpace(c.BaselineSheet) == "" {
		c.BaselineSheet = "Standings Baseline"
	}
	return c
}

// Workbook serialises every read and write of one file.
type Workbook struct {
	cfg    Config
	logger *logging.Logger
	mu     sync.Mutex
}

func New(cfg Config, logger *logging.Logger) (*Workbook, error) {
	cfg = cfg.normalize()
	if cfg.Path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Workbook{cfg: cfg, logger: logger}, nil
}

func (w *Workbook) Config() Config {
	return w.cfg
}

// read returns sheet's rows; a missing file or sheet reads as empty.
func (w *Workbook) read(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.cfg.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// write replaces sheet's content with rows and runs style on the result.
// The file and the sheet are created when missing.
func (w *Workbook) write(ctx context.Context, sheet string, rows [][]string, style func(f *excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, fresh, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ensureSheet(f, sheet, fresh); err != nil {
		return err
	}
	if err := clearSheet(f, sheet); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write sheet %q row %d: %w", sheet, i+1, err)
		}
	}
	if style != nil {
		if err := style(f); err != nil {
			w.logger.WarnContext(ctx, "style workbook sheet failed", "sheet", sheet, "error", err)
		}
	}

	if err := f.SaveAs(w.cfg.Path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(w.cfg.Path)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}
	w.logger.Info("workbook created", "path", w.cfg.Path)
	return excelize.NewFile(), true, nil
}

func ensureSheet(f *excelize.File, sheet string, fresh bool) error {
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		return nil
	}
	if fresh {
		if list := f.GetSheetList(); len(list) == 1 && list[0] == defaultSheet {
			return f.SetSheetName(defaultSheet, sheet)
		}
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("add sheet %q: %w", sheet, err)
	}
	return nil
}

func clearSheet(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for i := len(rows); i >= 1; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("clear sheet %q: %w", sheet, err)
		}
	}
	return nil
}
