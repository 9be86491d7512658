package fixture

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	ColumnDate        = "date"
	ColumnTime        = "time"
	ColumnHomeTeam    = "home_team"
	ColumnAwayTeam    = "away_team"
	ColumnVenue       = "venue"
	ColumnCompetition = "competition"
	ColumnStatus      = "status"
	ColumnHomeScore   = "home_score"
	ColumnAwayScore   = "away_score"
	ColumnHomeBP      = "home_bp"
	ColumnAwayBP      = "away_bp"
)

// Columns is the header written to empty stores.
var Columns = []string{
	ColumnDate,
	ColumnTime,
	ColumnHomeTeam,
	ColumnAwayTeam,
	ColumnVenue,
	ColumnCompetition,
	ColumnStatus,
	ColumnHomeScore,
	ColumnAwayScore,
	ColumnHomeBP,
	ColumnAwayBP,
}

var ErrMissingColumns = errors.New("fixtures header is missing required columns")

// NormalizeHeader lowercases a header cell and turns spaces into underscores.
func NormalizeHeader(cell string) string {
	return strings.Join(strings.Fields(strings.ToLower(cell)), "_")
}

// Layout maps header names to cell positions for one stored table.
type Layout struct {
	Header []string
	index  map[string]int
}

// NewLayout validates header; column order is free and extra columns are kept.
func NewLayout(header []string) (Layout, error) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		name := NormalizeHeader(cell)
		if name == "" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	missing := make([]string, 0)
	for _, column := range Columns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return Layout{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return Layout{Header: append([]string(nil), header...), index: index}, nil
}

// DefaultLayout is the layout of a table created by this service.
func DefaultLayout() Layout {
	layout, _ := NewLayout(Columns)
	return layout
}

func (l Layout) cell(cells []string, column string) string {
	i, ok := l.index[column]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// Decode reads one data row. row is the 1-based data row number.
func (l Layout) Decode(row int, cells []string) Fixture {
	f := Fixture{
		Row:         row,
		Date:        l.cell(cells, ColumnDate),
		Time:        l.cell(cells, ColumnTime),
		HomeTeam:    l.cell(cells, ColumnHomeTeam),
		AwayTeam:    l.cell(cells, ColumnAwayTeam),
		Venue:       l.cell(cells, ColumnVenue),
		Competition: l.cell(cells, ColumnCompetition),
		Status:      l.cell(cells, ColumnStatus),
		HomeScore:   ParseScore(l.cell(cells, ColumnHomeScore)),
		AwayScore:   ParseScore(l.cell(cells, ColumnAwayScore)),
		HomeBP:      ParseScore(l.cell(cells, ColumnHomeBP)),
		AwayBP:      ParseScore(l.cell(cells, ColumnAwayBP)),
	}

	for i, header := range l.Header {
		name := NormalizeHeader(header)
		if l.index[name] == i && isOwnedColumn(name) {
			continue
		}
		if i < len(cells) && cells[i] != "" {
			if f.Extra == nil {
				f.Extra = make(map[string]string)
			}
			f.Extra[header] = cells[i]
		}
	}
	return f
}

// Encode renders f in header order.
func (l Layout) Encode(f Fixture) []string {
	values := map[string]string{
		ColumnDate:        f.Date,
		ColumnTime:        f.Time,
		ColumnHomeTeam:    f.HomeTeam,
		ColumnAwayTeam:    f.AwayTeam,
		ColumnVenue:       f.Venue,
		ColumnCompetition: f.Competition,
		ColumnStatus:      f.Status,
		ColumnHomeScore:   FormatScore(f.HomeScore),
		ColumnAwayScore:   FormatScore(f.AwayScore),
		ColumnHomeBP:      FormatScore(f.HomeBP),
		ColumnAwayBP:      FormatScore(f.AwayBP),
	}

	out := make([]string, len(l.Header))
	for i, header := range l.Header {
		name := NormalizeHeader(header)
		if l.index[name] == i && isOwnedColumn(name) {
			out[i] = values[name]
			continue
		}
		out[i] = f.Extra[header]
	}
	return out
}

func isOwnedColumn(name string) bool {
	return slices.Contains(Columns, name)
}
