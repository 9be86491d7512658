package workbook

import (
	"github.com/xuri/excelize/v2"
)

const (
	headerFill    = "1A1A2E"
	headerFont    = "FFFFFF"
	highlightFill = "FFF3CD"
)

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
}

func highlightStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlightFill}},
	})
}

// styleRow applies style to columns cells of the 1-based sheet row.
func styleRow(f *excelize.File, sheet string, row, columns, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, columns, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
