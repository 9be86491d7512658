package sheets

import gsheets "google.golang.org/api/sheets/v4"

var (
	headerBackground    = rgb(0x1a, 0x1a, 0x2e)
	headerText          = rgb(0xff, 0xff, 0xff)
	highlightBackground = rgb(0xff, 0xf3, 0xcd)
)

func rgb(r, g, b int) *gsheets.Color {
	return &gsheets.Color{
		Red:   float64(r) / 255,
		Green: float64(g) / 255,
		Blue:  float64(b) / 255,
	}
}

func rowRange(sheetID int64, row, columns int) *gsheets.GridRange {
	return &gsheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(row),
		EndRowIndex:      int64(row + 1),
		StartColumnIndex: 0,
		EndColumnIndex:   int64(columns),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

func headerStyle(sheetID int64, columns int) *gsheets.Request {
	return &gsheets.Request{RepeatCell: &gsheets.RepeatCellRequest{
		Range: rowRange(sheetID, 0, columns),
		Cell: &gsheets.CellData{UserEnteredFormat: &gsheets.CellFormat{
			BackgroundColor: headerBackground,
			TextFormat:      &gsheets.TextFormat{Bold: true, ForegroundColor: headerText},
		}},
		Fields: "userEnteredFormat(backgroundColor,textFormat)",
	}}
}

// rowStyle paints data row (1-based) with the highlight colour, or clears
// any leftover highlight when highlight is false.
func rowStyle(sheetID int64, row, columns int, highlight bool) *gsheets.Request {
	format := &gsheets.CellFormat{
		BackgroundColor: rgb(0xff, 0xff, 0xff),
		TextFormat:      &gsheets.TextFormat{Bold: false, ForceSendFields: []string{"Bold"}},
	}
	if highlight {
		format = &gsheets.CellFormat{
			BackgroundColor: highlightBackground,
			TextFormat:      &gsheets.TextFormat{Bold: true},
		}
	}
	return &gsheets.Request{RepeatCell: &gsheets.RepeatCellRequest{
		Range:  rowRange(sheetID, row, columns),
		Cell:   &gsheets.CellData{UserEnteredFormat: format},
		Fields: "userEnteredFormat(backgroundColor,textFormat.bold)",
	}}
}

func freezeHeader(sheetID int64) *gsheets.Request {
	return &gsheets.Request{UpdateSheetProperties: &gsheets.UpdateSheetPropertiesRequest{
		Properties: &gsheets.SheetProperties{
			SheetId:         sheetID,
			GridProperties:  &gsheets.GridProperties{FrozenRowCount: 1},
			ForceSendFields: []string{"SheetId"},
		},
		Fields: "gridProperties.frozenRowCount",
	}}
}
