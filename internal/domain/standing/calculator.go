package standing

import (
	"sort"
	"strings"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/team"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
)

// Calculate rebuilds the whole table from baseline plus every scored
// fixture dated on or after the cutover. Output order is fully determined
// by the inputs.
func Calculate(fixtures []fixture.Fixture, baseline Baseline, rules Rules, aliases team.Aliases) []Standing {
	idx := team.NewIndex(aliases)
	table := make(map[string]*Standing, len(baseline.Rows))
	order := make([]string, 0, len(baseline.Rows))

	entry := func(name string) *Standing {
		if row, ok := table[name]; ok {
			return row
		}
		row := &Standing{Team: name}
		table[name] = row
		order = append(order, name)
		return row
	}

	for _, base := range baseline.Rows {
		row := entry(idx.Canonical(base.Team))
		row.Played += base.Played
		row.Won += base.Won
		row.Drawn += base.Drawn
		row.Lost += base.Lost
		row.PointsFor += base.PointsFor
		row.PointsAgainst += base.PointsAgainst
		row.TryBonus += base.TryBonus
		row.LosingBonus += base.LosingBonus
		row.Points += base.Points
	}

	cutover := datekey.Key(baseline.Cutover)
	for _, f := range fixtures {
		if !Counts(f, cutover) {
			continue
		}
		homeName := idx.Canonical(f.HomeTeam)
		awayName := idx.Canonical(f.AwayTeam)
		if team.Key(homeName) == "" || team.Key(awayName) == "" {
			continue
		}
		applyResult(entry(homeName), entry(awayName), f, rules)
	}

	out := make([]Standing, 0, len(order))
	for _, name := range order {
		row := *table[name]
		row.PointsDifference = row.PointsFor - row.PointsAgainst
		row.BonusPoints = row.TryBonus + row.LosingBonus
		out = append(out, row)
	}
	Rank(out, rules.HighlightTeam)
	return out
}

// Counts reports whether f contributes to the table: dated on or after
// cutover (a yyyy-MM-dd key, "" for no cutover), both scores present, and
// completed when a status is recorded.
func Counts(f fixture.Fixture, cutover string) bool {
	dateKey := datekey.Key(f.Date)
	if dateKey == "" {
		return false
	}
	if cutover != "" && dateKey < cutover {
		return false
	}
	if !f.HasScores() {
		return false
	}
	if strings.TrimSpace(f.Status) != "" && !fixture.IsCompletedStatus(f.Status) {
		return false
	}
	return true
}

func applyResult(home, away *Standing, f fixture.Fixture, rules Rules) {
	homeScore, awayScore := *f.HomeScore, *f.AwayScore

	home.Played++
	away.Played++
	home.PointsFor += homeScore
	home.PointsAgainst += awayScore
	away.PointsFor += awayScore
	away.PointsAgainst += homeScore

	switch {
	case homeScore > awayScore:
		home.Won++
		home.Points += rules.Win
		away.Lost++
		away.Points += rules.Loss
		if homeScore-awayScore <= rules.LosingBonusMargin {
			away.LosingBonus++
			away.Points++
		}
	case awayScore > homeScore:
		away.Won++
		away.Points += rules.Win
		home.Lost++
		home.Points += rules.Loss
		if awayScore-homeScore <= rules.LosingBonusMargin {
			home.LosingBonus++
			home.Points++
		}
	default:
		home.Drawn++
		home.Points += rules.Draw
		away.Drawn++
		away.Points += rules.Draw
	}

	if f.HomeBP != nil && *f.HomeBP > 0 {
		home.TryBonus += *f.HomeBP
		home.Points += *f.HomeBP
	}
	if f.AwayBP != nil && *f.AwayBP > 0 {
		away.TryBonus += *f.AwayBP
		away.Points += *f.AwayBP
	}
}

// Rank sorts by points, points difference, points for, then team name, and
// fills Position and Highlight.
func Rank(rows []Standing, highlightTeam string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.PointsDifference != b.PointsDifference {
			return a.PointsDifference > b.PointsDifference
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		if la, lb := strings.ToLower(a.Team), strings.ToLower(b.Team); la != lb {
			return la < lb
		}
		return a.Team < b.Team
	})

	highlight := strings.ToLower(strings.TrimSpace(highlightTeam))
	for i := range rows {
		rows[i].Position = i + 1
		rows[i].Highlight = highlight != "" && strings.Contains(strings.ToLower(rows[i].Team), highlight)
	}
}
