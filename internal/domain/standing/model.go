package standing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
)

// Standing is one ranked row of the league table.
type Standing struct {
	Position         int    `json:"position"`
	Team             string `json:"team"`
	Played           int    `json:"played"`
	Won              int    `json:"won"`
	Drawn            int    `json:"drawn"`
	Lost             int    `json:"lost"`
	PointsFor        int    `json:"pf"`
	PointsAgainst    int    `json:"pa"`
	PointsDifference int    `json:"pd"`
	TryBonus         int    `json:"tb"`
	LosingBonus      int    `json:"lb"`
	BonusPoints      int    `json:"bp"`
	Points           int    `json:"points"`
	Highlight        bool   `json:"highlight"`
}

// BaselineRow is a team's table position as of the cutover date.
type BaselineRow struct {
	Team          string `json:"team"`
	Played        int    `json:"played"`
	Won           int    `json:"won"`
	Drawn         int    `json:"drawn"`
	Lost          int    `json:"lost"`
	PointsFor     int    `json:"pf"`
	PointsAgainst int    `json:"pa"`
	TryBonus      int    `json:"tb"`
	LosingBonus   int    `json:"lb"`
	Points        int    `json:"points"`
}

// Baseline is the snapshot standings are rebuilt from. Fixtures dated
// before Cutover are already counted in Rows.
type Baseline struct {
	Cutover string        `json:"cutover"`
	Rows    []BaselineRow `json:"rows"`
}

func (b Baseline) Validate() error {
	if strings.TrimSpace(b.Cutover) != "" && datekey.Key(b.Cutover) == "" {
		return fmt.Errorf("baseline cutover %q is not a date", b.Cutover)
	}
	seen := make(map[string]struct{}, len(b.Rows))
	for i, row := range b.Rows {
		name := strings.ToLower(strings.TrimSpace(row.Team))
		if name == "" {
			return fmt.Errorf("baseline row %d has no team", i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("baseline team %q is listed twice", row.Team)
		}
		seen[name] = struct{}{}
		if row.Played < 0 || row.Won < 0 || row.Drawn < 0 || row.Lost < 0 {
			return fmt.Errorf("baseline team %q has negative counts", row.Team)
		}
	}
	return nil
}

// Rules are the league's points rules.
type Rules struct {
	Win               int
	Draw              int
	Loss              int
	LosingBonusMargin int
	HighlightTeam     string
}

func DefaultRules() Rules {
	return Rules{
		Win:               4,
		Draw:              2,
		Loss:              0,
		LosingBonusMargin: 7,
		HighlightTeam:     "Broadstreet",
	}
}

// Header is the standings table header.
var Header = []string{"position", "team", "played", "won", "drawn", "lost", "pf", "pa", "pd", "tb", "lb", "bp", "points", "highlight"}

// Cells renders s in Header order.
func (s Standing) Cells() []string {
	return []string{
		strconv.Itoa(s.Position),
		s.Team,
		strconv.Itoa(s.Played),
		strconv.Itoa(s.Won),
		strconv.Itoa(s.Drawn),
		strconv.Itoa(s.Lost),
		strconv.Itoa(s.PointsFor),
		strconv.Itoa(s.PointsAgainst),
		strconv.Itoa(s.PointsDifference),
		strconv.Itoa(s.TryBonus),
		strconv.Itoa(s.LosingBonus),
		strconv.Itoa(s.BonusPoints),
		strconv.Itoa(s.Points),
		strconv.FormatBool(s.Highlight),
	}
}

// DecodeTable reads stored rows back using their header. Columns are
// matched by name so a hand-edited tab still reads.
func DecodeTable(header []string, rows [][]string) []Standing {
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

	out := make([]Standing, 0, len(rows))
	for _, cells := range rows {
		name := get(cells, "team")
		if name == "" {
			continue
		}
		out = append(out, Standing{
			Position:         num(cells, "position"),
			Team:             name,
			Played:           num(cells, "played"),
			Won:              num(cells, "won"),
			Drawn:            num(cells, "drawn"),
			Lost:             num(cells, "lost"),
			PointsFor:        num(cells, "pf"),
			PointsAgainst:    num(cells, "pa"),
			PointsDifference: num(cells, "pd"),
			TryBonus:         num(cells, "tb"),
			LosingBonus:      num(cells, "lb"),
			BonusPoints:      num(cells, "bp"),
			Points:           num(cells, "points"),
			Highlight:        strings.EqualFold(get(cells, "highlight"), "true"),
		})
	}
	return out
}
