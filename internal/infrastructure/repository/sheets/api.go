// Package sheets stores the fixtures and standings tables in a Google
// Sheets spreadsheet, one tab per table.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// API is the part of the Sheets service the store needs.
type API interface {
	Values(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Write(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
	SheetIDs(ctx context.Context, spreadsheetID string) (map[string]int64, error)
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*gsheets.Request) error
}

type googleAPI struct {
	svc *gsheets.Service
}

type CredentialsConfig struct {
	// File is a service account key file; JSON wins when both are set.
	File string
	JSON string
}

// NewGoogleAPI authenticates with a service account key.
func NewGoogleAPI(ctx context.Context, cfg CredentialsConfig) (API, error) {
	raw := []byte(strings.TrimSpace(cfg.JSON))
	if len(raw) == 0 {
		path := strings.TrimSpace(cfg.File)
		if path == "" {
			return nil, fmt.Errorf("sheets credentials are required")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sheets credentials: %w", err)
		}
		raw = data
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	svc, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &googleAPI{svc: svc}, nil
}

func (a *googleAPI) Values(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (a *googleAPI) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := a.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (a *googleAPI) Write(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (a *googleAPI) SheetIDs(ctx context.Context, spreadsheetID string) (map[string]int64, error) {
	resp, err := a.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties == nil {
			continue
		}
		out[sheet.Properties.Title] = sheet.Properties.SheetId
	}
	return out, nil
}

func (a *googleAPI) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*gsheets.Request) error {
	if len(requests) == 0 {
		return nil
	}
	_, err := a.svc.Spreadsheets.BatchUpdate(spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}
