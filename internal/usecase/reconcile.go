package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/team"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
)

// dedupeStoredFixtures collapses rows sharing an alias-resolved identity key
// onto the first copy. Rows without a key are kept as they are.
func dedupeStoredFixtures(rows []fixture.Fixture, aliases team.Aliases) ([]fixture.Fixture, int) {
	out := make([]fixture.Fixture, 0, len(rows))
	positions := make(map[string]int, len(rows))
	removed := 0

	for _, row := range rows {
		key := row.KeyWith(aliases)
		if key == "" {
			out = append(out, row)
			continue
		}
		if pos, exists := positions[key]; exists {
			mergeFixtureRows(&out[pos], row)
			removed++
			continue
		}
		positions[key] = len(out)
		out = append(out, row)
	}
	return out, removed
}

func mergeFixtureRows(target *fixture.Fixture, source fixture.Fixture) {
	if isBlank(target.Time) && !isBlank(source.Time) {
		target.Time = source.Time
	}
	if isBlank(target.Venue) && !isBlank(source.Venue) {
		target.Venue = source.Venue
	}
	if isBlank(target.Competition) && !isBlank(source.Competition) {
		target.Competition = source.Competition
	}

	if !target.HasCompletedResult() && source.HasCompletedResult() {
		target.Status = source.Status
		if isBlank(target.Status) {
			target.Status = fixture.StatusCompleted
		}
		target.HomeScore = source.HomeScore
		target.AwayScore = source.AwayScore
		target.HomeBP = source.HomeBP
		target.AwayBP = source.AwayBP
		return
	}
	if isBlank(target.Status) && !isBlank(source.Status) {
		target.Status = source.Status
	}
}

// dedupeIncomingFixtures merges the same fixture published by several feeds.
// The first copy wins; its blank time, venue and competition are filled from
// later copies.
func dedupeIncomingFixtures(items []ExternalFixture, aliases team.Aliases) []ExternalFixture {
	out := make([]ExternalFixture, 0, len(items))
	positions := make(map[string]int, len(items))

	for _, item := range items {
		key := fixture.KeyWith(aliases, item.Date, item.HomeTeam, item.AwayTeam)
		if key == "" {
			out = append(out, item)
			continue
		}
		if pos, exists := positions[key]; exists {
			target := &out[pos]
			if isBlank(target.Time) {
				target.Time = item.Time
			}
			if isBlank(target.Venue) {
				target.Venue = item.Venue
			}
			if isBlank(target.Competition) {
				target.Competition = item.Competition
			}
			continue
		}
		positions[key] = len(out)
		out = append(out, item)
	}
	return out
}

// seedTeamIndex primes name matching with alias targets, the feed roster and
// the spellings already stored, in that order.
func seedTeamIndex(aliases team.Aliases, roster []string, rows []fixture.Fixture) *team.Index {
	idx := team.NewIndex(aliases)
	idx.Add(roster...)
	for _, row := range rows {
		idx.Add(row.HomeTeam, row.AwayTeam)
	}
	return idx
}

type scheduleChanges struct {
	Added   int
	Updated int
	Skipped int
}

type scheduleInput struct {
	Rows        []fixture.Fixture
	Incoming    []ExternalFixture
	Teams       *team.Index
	DefaultTime string
	Now         time.Time
	Location    *time.Location
}

// applySchedule upserts calendar fixtures into rows. Existing rows only get
// blank fields filled; a row holding a completed result keeps its status and
// scores. Counts reflect rows that actually changed.
func applySchedule(in scheduleInput) ([]fixture.Fixture, scheduleChanges) {
	rows := in.Rows
	original := make([]fixture.Fixture, len(rows))
	for i, row := range rows {
		original[i] = row.Clone()
	}

	aliases := in.Teams.Aliases()
	positions := indexByKey(rows, aliases)
	touched := make(map[int]struct{})
	var changes scheduleChanges

	for _, item := range in.Incoming {
		home := in.Teams.Canonical(item.HomeTeam)
		away := in.Teams.Canonical(item.AwayTeam)
		key := fixture.KeyWith(aliases, item.Date, home, away)
		if key == "" {
			changes.Skipped++
			continue
		}

		pos, exists := positions[key]
		if !exists {
			kickoff := datekey.NormalizeTime(item.Time)
			if kickoff == "" {
				kickoff = in.DefaultTime
			}
			rows = append(rows, fixture.Fixture{
				Date:        strings.TrimSpace(item.Date),
				Time:        kickoff,
				HomeTeam:    home,
				AwayTeam:    away,
				Venue:       strings.TrimSpace(item.Venue),
				Competition: strings.TrimSpace(item.Competition),
				Status:      item.Status,
			})
			pos = len(rows) - 1
			positions[key] = pos
		}
		touched[pos] = struct{}{}

		target := &rows[pos]
		if isBlank(target.Time) {
			if kickoff := datekey.NormalizeTime(item.Time); kickoff != "" {
				target.Time = kickoff
			} else {
				target.Time = in.DefaultTime
			}
		}
		if isBlank(target.Venue) {
			target.Venue = strings.TrimSpace(item.Venue)
		}
		if isBlank(target.Competition) {
			target.Competition = strings.TrimSpace(item.Competition)
		}
		preserveResult(target, in.Now, in.Location)
	}

	for i := range rows {
		if i >= len(original) {
			changes.Added++
			continue
		}
		if _, ok := touched[i]; ok && !sameFixture(original[i], rows[i]) {
			changes.Updated++
		}
	}
	return rows, changes
}

// preserveResult keeps a completed result intact. Rows without one get
// their status from the calendar date, whatever was stored before, and lose
// any partial scores.
func preserveResult(row *fixture.Fixture, now time.Time, loc *time.Location) {
	if row.HasCompletedResult() {
		if isBlank(row.Status) {
			row.Status = fixture.StatusCompleted
		}
		return
	}

	if datekey.IsPast(row.Date, now, loc) {
		row.Status = fixture.StatusCompleted
	} else {
		row.Status = fixture.StatusUpcoming
	}
	row.HomeScore = nil
	row.AwayScore = nil
	row.HomeBP = nil
	row.AwayBP = nil
}

type resultChanges struct {
	Fetched int
	Matched int
	Updated int
	Created int
	Skipped int
}

// applyResults patches scores from the results API. A matched row changes
// only when its stored scores differ; unmatched results become new
// completed rows.
func applyResults(rows []fixture.Fixture, results []ExternalResult, teams *team.Index, loc *time.Location) ([]fixture.Fixture, resultChanges) {
	changes := resultChanges{Fetched: len(results)}
	aliases := teams.Aliases()
	positions := indexByKey(rows, aliases)

	for _, result := range results {
		if !IsScoredResultType(result.Type) || result.PlayedAt.IsZero() {
			changes.Skipped++
			continue
		}

		home := teams.Canonical(result.HomeTeam)
		away := teams.Canonical(result.AwayTeam)
		if team.Key(home) == "" || team.Key(away) == "" {
			changes.Skipped++
			continue
		}

		date := datekey.FormatDate(result.PlayedAt, loc)
		key := fixture.KeyWith(aliases, date, home, away)
		if key == "" {
			changes.Skipped++
			continue
		}

		homeScore, awayScore := result.HomeScore, result.AwayScore
		if pos, ok := positions[key]; ok {
			changes.Matched++
			target := &rows[pos]
			if target.HomeScore != nil && target.AwayScore != nil &&
				*target.HomeScore == homeScore && *target.AwayScore == awayScore {
				continue
			}
			target.HomeScore = fixture.Int(homeScore)
			target.AwayScore = fixture.Int(awayScore)
			target.Status = fixture.StatusCompleted
			changes.Updated++
			continue
		}

		rows = append(rows, fixture.Fixture{
			Date:        date,
			HomeTeam:    home,
			AwayTeam:    away,
			Competition: strings.TrimSpace(result.Competition),
			Status:      fixture.StatusCompleted,
			HomeScore:   fixture.Int(homeScore),
			AwayScore:   fixture.Int(awayScore),
		})
		positions[key] = len(rows) - 1
		changes.Created++
	}
	return rows, changes
}

// IsScoredResultType reports whether a results API entry carries a final
// score.
func IsScoredResultType(kind string) bool {
	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "RESULT", "HOMEWALKOVER", "AWAYWALKOVER":
		return true
	default:
		return false
	}
}

// sortFixtures orders rows by date, kickoff, home and away team. Rows
// without a usable date sort last.
func sortFixtures(rows []fixture.Fixture) {
	type keyedRow struct {
		date string
		time string
		home string
		away string
		row  fixture.Fixture
	}

	items := make([]keyedRow, len(rows))
	for i, row := range rows {
		date := datekey.Key(row.Date)
		if date == "" {
			date = "9999-99-99"
		}
		items[i] = keyedRow{
			date: date,
			time: datekey.TimeSortKey(row.Time),
			home: strings.ToLower(row.HomeTeam),
			away: strings.ToLower(row.AwayTeam),
			row:  row,
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.date != b.date {
			return a.date < b.date
		}
		if a.time != b.time {
			return a.time < b.time
		}
		if a.home != b.home {
			return a.home < b.home
		}
		return a.away < b.away
	})

	for i := range items {
		rows[i] = items[i].row
	}
}

// renumberFixtures assigns 1-based data row numbers in table order.
func renumberFixtures(rows []fixture.Fixture) {
	for i := range rows {
		rows[i].Row = i + 1
	}
}

func indexByKey(rows []fixture.Fixture, aliases team.Aliases) map[string]int {
	out := make(map[string]int, len(rows))
	for i, row := range rows {
		key := row.KeyWith(aliases)
		if key == "" {
			continue
		}
		if _, exists := out[key]; !exists {
			out[key] = i
		}
	}
	return out
}

func sameFixture(a, b fixture.Fixture) bool {
	return a.Date == b.Date &&
		a.Time == b.Time &&
		a.HomeTeam == b.HomeTeam &&
		a.AwayTeam == b.AwayTeam &&
		a.Venue == b.Venue &&
		a.Competition == b.Competition &&
		a.Status == b.Status &&
		fixture.SameScore(a.HomeScore, b.HomeScore) &&
		fixture.SameScore(a.AwayScore, b.AwayScore) &&
		fixture.SameScore(a.HomeBP, b.HomeBP) &&
		fixture.SameScore(a.AwayBP, b.AwayBP)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
