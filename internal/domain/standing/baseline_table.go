package standing

import (
	"strconv"
	"strings"
)

// BaselineHeader is the header of a baseline table kept next to the
// standings in a spreadsheet store.
var BaselineHeader = []string{"team", "played", "won", "drawn", "lost", "pf", "pa", "tb", "lb", "points", "cutover"}

// DecodeBaseline reads a stored baseline table. The first non-blank cutover
// cell applies to the whole table. ok is false when no row names a team.
func DecodeBaseline(header []string, rows [][]string) (Baseline, bool) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		index[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	get := func(cells []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	num := func(cells []string, name string) int {
		v, _ := strconv.Atoi(get(cells, name))
		return v
	}

	var out Baseline
	for _, cells := range rows {
		if out.Cutover == "" {
			out.Cutover = get(cells, "cutover")
		}
		name := get(cells, "team")
		if name == "" {
			continue
		}
		out.Rows = append(out.Rows, BaselineRow{
			Team:          name,
			Played:        num(cells, "played"),
			Won:           num(cells, "won"),
			Drawn:         num(cells, "drawn"),
			Lost:          num(cells, "lost"),
			PointsFor:     num(cells, "pf"),
			PointsAgainst: num(cells, "pa"),
			TryBonus:      num(cells, "tb"),
			LosingBonus:   num(cells, "lb"),
			Points:        num(cells, "points"),
		})
	}
	return out, len(out.Rows) > 0
}

// Cells renders r in BaselineHeader order; cutover is written on the
// first row only.
func (r BaselineRow) Cells(cutover string) []string {
	return []string{
		r.Team,
		strconv.Itoa(r.Played),
		strconv.Itoa(r.Won),
		strconv.Itoa(r.Drawn),
		strconv.Itoa(r.Lost),
		strconv.Itoa(r.PointsFor),
		strconv.Itoa(r.PointsAgainst),
		strconv.Itoa(r.TryBonus),
		strconv.Itoa(r.LosingBonus),
		strconv.Itoa(r.Points),
		cutover,
	}
}
