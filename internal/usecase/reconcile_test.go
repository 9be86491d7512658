package usecase

import (
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/team"
)

func runSchedule(rows []fixture.Fixture, incoming []ExternalFixture, now time.Time) ([]fixture.Fixture, scheduleChanges) {
	out, changes := applySchedule(scheduleInput{
		Rows:        rows,
		Incoming:    incoming,
		Teams:       seedTeamIndex(team.NewAliases(nil), nil, rows),
		DefaultTime: "15:00",
		Now:         now,
		Location:    time.UTC,
	})
	sortFixtures(out)
	renumberFixtures(out)
	return out, changes
}

func cloneRows(rows []fixture.Fixture) []fixture.Fixture {
	out := make([]fixture.Fixture, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}

func TestApplySchedule_IsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	stored := []fixture.Fixture{
		{Row: 1, Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Old Leamingtonians", Status: "upcoming"},
	}
	incoming := []ExternalFixture{
		{Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet RFC", AwayTeam: "Old Leamingtonians", Venue: "Ivor Preece Field"},
		{Date: "Saturday 28 Feb 2026", Time: "2:30 PM", HomeTeam: "Stratford Upon Avon", AwayTeam: "Broadstreet", Venue: "Pearcecroft"},
	}

	first, changes := runSchedule(cloneRows(stored), incoming, now)
	if changes.Added != 1 || changes.Updated != 1 || changes.Skipped != 0 {
		t.Fatalf("unexpected first pass changes: %+v", changes)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first))
	}
	if first[0].Venue != "Ivor Preece Field" || first[0].HomeTeam != "Broadstreet" {
		t.Fatalf("expected stored row to gain venue under stored name, got %+v", first[0])
	}
	if first[1].Time != "14:30" || first[1].Status != fixture.StatusUpcoming || first[1].Row != 2 {
		t.Fatalf("unexpected appended row: %+v", first[1])
	}

	second, changes := runSchedule(cloneRows(first), incoming, now)
	if changes.Added != 0 || changes.Updated != 0 {
		t.Fatalf("second pass must not change anything, got %+v", changes)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass changed rows:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestApplySchedule_PreservesCompletedResults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	stored := []fixture.Fixture{
		{
			Row: 1, Date: "Saturday 7 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Harbury",
			Status: "completed", HomeScore: fixture.Int(24), AwayScore: fixture.Int(10), HomeBP: fixture.Int(1), AwayBP: fixture.Int(0),
		},
		{Row: 2, Date: "Saturday 14 Feb 2026", HomeTeam: "Harbury", AwayTeam: "Broadstreet", Status: "upcoming", HomeScore: fixture.Int(5)},
		{Row: 3, Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Pinley", Status: "postponed"},
		{Row: 4, Date: "Saturday 14 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Stoke Old Boys", Status: "postponed"},
	}
	incoming := []ExternalFixture{
		{Date: "Saturday 7 Feb 2026", Time: "14:00", HomeTeam: "Broadstreet", AwayTeam: "Harbury", Venue: "Ivor Preece Field"},
		{Date: "Saturday 14 Feb 2026", Time: "14:00", HomeTeam: "Harbury", AwayTeam: "Broadstreet"},
		{Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Pinley"},
		{Date: "Saturday 14 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Stoke Old Boys"},
	}

	rows, _ := runSchedule(cloneRows(stored), incoming, now)

	played := rows[0]
	if played.Status != fixture.StatusCompleted || *played.HomeScore != 24 || *played.AwayScore != 10 || *played.HomeBP != 1 {
		t.Fatalf("completed result was not preserved: %+v", played)
	}
	if played.Time != "15:00" || played.Venue != "Ivor Preece Field" {
		t.Fatalf("expected time kept and venue filled, got time=%q venue=%q", played.Time, played.Venue)
	}

	partial := rows[1]
	if partial.HomeScore != nil || partial.AwayScore != nil {
		t.Fatalf("partial score should be cleared: %+v", partial)
	}
	if partial.Time != "14:00" || partial.Status != fixture.StatusCompleted {
		t.Fatalf("expected feed time and past-date status, got time=%q status=%q", partial.Time, partial.Status)
	}

	byAway := make(map[string]fixture.Fixture, len(rows))
	for _, row := range rows {
		byAway[row.AwayTeam] = row
	}
	if got := byAway["Pinley"].Status; got != fixture.StatusUpcoming {
		t.Fatalf("future postponed fixture should be recomputed to upcoming, got %q", got)
	}
	if got := byAway["Stoke Old Boys"].Status; got != fixture.StatusCompleted {
		t.Fatalf("past unscored postponed fixture should be recomputed to completed, got %q", got)
	}
}

func TestApplySchedule_SkipsUnkeyableFixtures(t *testing.T) {
	t.Parallel()

	rows, changes := runSchedule(nil, []ExternalFixture{
		{Date: "TBC", HomeTeam: "Broadstreet", AwayTeam: "Harbury"},
		{Date: "Saturday 21 Feb 2026", HomeTeam: "", AwayTeam: "Harbury"},
	}, time.Now())
	if changes.Skipped != 2 || len(rows) != 0 {
		t.Fatalf("expected both fixtures skipped, got changes=%+v rows=%d", changes, len(rows))
	}
}

func TestApplySchedule_BlankFeedTimeUsesDefault(t *testing.T) {
	t.Parallel()

	rows, _ := runSchedule(nil, []ExternalFixture{
		{Date: "2026-03-07", HomeTeam: "Pinley", AwayTeam: "Broadstreet"},
	}, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if len(rows) != 1 || rows[0].Time != "15:00" {
		t.Fatalf("expected default kickoff, got %+v", rows)
	}
}

func TestDedupeIncomingFixtures_KeepsPopulatedVenue(t *testing.T) {
	t.Parallel()

	out := dedupeIncomingFixtures([]ExternalFixture{
		{Source: "Broadstreet", Date: "Saturday 21 Feb 2026", HomeTeam: "Broadstreet", AwayTeam: "Harbury"},
		{Source: "Harbury", Date: "21/02/2026", Time: "15:00", HomeTeam: "Broadstreet RFC", AwayTeam: "Harbury", Venue: "Ivor Preece Field"},
		{Source: "Harbury", Date: "Saturday 28 Feb 2026", HomeTeam: "Harbury", AwayTeam: "Pinley"},
	}, team.NewAliases(nil))

	if len(out) != 2 {
		t.Fatalf("expected 2 fixtures after dedupe, got %d", len(out))
	}
	if out[0].Source != "Broadstreet" || out[0].Venue != "Ivor Preece Field" || out[0].Time != "15:00" {
		t.Fatalf("expected first copy filled from second, got %+v", out[0])
	}
}

func TestDedupeStoredFixtures_MergesOntoFirstRow(t *testing.T) {
	t.Parallel()

	rows, removed := dedupeStoredFixtures([]fixture.Fixture{
		{Row: 1, Date: "Saturday 7 Feb 2026", HomeTeam: "Broadstreet", AwayTeam: "Harbury", Status: "upcoming"},
		{Row: 2, Date: "2026-02-07", HomeTeam: "Broadstreet", AwayTeam: "Harbury", Venue: "Ivor Preece Field", Status: "completed", HomeScore: fixture.Int(24), AwayScore: fixture.Int(10)},
		{Row: 3, Date: "", HomeTeam: "Broadstreet", AwayTeam: "Harbury"},
	}, team.NewAliases(nil))

	if removed != 1 || len(rows) != 2 {
		t.Fatalf("expected one duplicate removed, got removed=%d rows=%d", removed, len(rows))
	}
	merged := rows[0]
	if merged.Venue != "Ivor Preece Field" || merged.Status != "completed" || *merged.HomeScore != 24 {
		t.Fatalf("expected duplicate merged into first row, got %+v", merged)
	}
	if rows[1].Row != 3 {
		t.Fatalf("expected unkeyable row kept as is, got %+v", rows[1])
	}
}

func TestApplyResults_OnlyCountsChanges(t *testing.T) {
	t.Parallel()

	rows := []fixture.Fixture{
		{Row: 1, Date: "Saturday 7 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Harbury", Status: "completed", HomeScore: fixture.Int(24), AwayScore: fixture.Int(10)},
		{Row: 2, Date: "Saturday 14 Feb 2026", Time: "15:00", HomeTeam: "Pinley", AwayTeam: "Broadstreet", Status: "upcoming"},
	}
	played := func(day int) time.Time { return time.Date(2026, 2, day, 15, 0, 0, 0, time.UTC) }
	results := []ExternalResult{
		{Type: "RESULT", PlayedAt: played(7), HomeTeam: "Broadstreet RFC", AwayTeam: "Harbury RFC", HomeScore: 24, AwayScore: 10},
		{Type: "RESULT", PlayedAt: played(14), HomeTeam: "Pinley", AwayTeam: "Broadstreet", HomeScore: 12, AwayScore: 30},
		{Type: "HOMEWALKOVER", PlayedAt: played(21), HomeTeam: "Broadstreet", AwayTeam: "Old Coventrians", HomeScore: 28, AwayScore: 0},
		{Type: "POSTPONED", PlayedAt: played(28), HomeTeam: "Broadstreet", AwayTeam: "Pinley"},
		{Type: "RESULT", HomeTeam: "Broadstreet", AwayTeam: "Pinley", HomeScore: 3, AwayScore: 3},
	}

	out, changes := applyResults(rows, results, seedTeamIndex(team.NewAliases(nil), nil, rows), time.UTC)
	want := resultChanges{Fetched: 5, Matched: 2, Updated: 1, Created: 1, Skipped: 2}
	if changes != want {
		t.Fatalf("unexpected changes: got=%+v want=%+v", changes, want)
	}
	if out[1].Status != fixture.StatusCompleted || *out[1].HomeScore != 12 || *out[1].AwayScore != 30 {
		t.Fatalf("expected matched fixture scored, got %+v", out[1])
	}
	created := out[2]
	if created.Date != "Saturday 21 Feb 2026" || created.Time != "" || created.HomeTeam != "Broadstreet" || *created.HomeScore != 28 {
		t.Fatalf("unexpected created row: %+v", created)
	}

	_, again := applyResults(out, results, seedTeamIndex(team.NewAliases(nil), nil, out), time.UTC)
	if again.Updated != 0 || again.Created != 0 {
		t.Fatalf("re-applying the same results must be a no-op, got %+v", again)
	}
}

func TestIsScoredResultType(t *testing.T) {
	t.Parallel()

	for kind, want := range map[string]bool{
		"RESULT":       true,
		"result":       true,
		"AwayWalkover": true,
		"HOMEWALKOVER": true,
		"POSTPONED":    false,
		"":             false,
	} {
		if got := IsScoredResultType(kind); got != want {
			t.Fatalf("IsScoredResultType(%q)=%v want %v", kind, got, want)
		}
	}
}

func TestSortFixtures_OrdersByDateTimeAndTeams(t *testing.T) {
	t.Parallel()

	rows := []fixture.Fixture{
		{Date: "TBC", HomeTeam: "Zeta", AwayTeam: "Broadstreet"},
		{Date: "Saturday 21 Feb 2026", Time: "", HomeTeam: "Alpha", AwayTeam: "Broadstreet"},
		{Date: "21/02/2026", Time: "14:00", HomeTeam: "Pinley", AwayTeam: "Broadstreet"},
		{Date: "2026-02-14", Time: "15:00", HomeTeam: "Harbury", AwayTeam: "Broadstreet"},
	}
	sortFixtures(rows)
	renumberFixtures(rows)

	got := []string{rows[0].HomeTeam, rows[1].HomeTeam, rows[2].HomeTeam, rows[3].HomeTeam}
	want := []string{"Harbury", "Pinley", "Alpha", "Zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got=%v want=%v", got, want)
	}
	if rows[3].Row != 4 {
		t.Fatalf("expected renumbered rows, got %d", rows[3].Row)
	}
}

func onsAliases() team.Aliases {
	return team.NewAliases(map[string]string{"ONs": "Old Northamptonians"})
}

func TestApplySchedule_MatchesAliasSpelledStoredRow(t *testing.T) {
	t.Parallel()

	aliases := onsAliases()
	stored := []fixture.Fixture{
		{Row: 1, Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "ONs", Status: "upcoming"},
	}
	incoming := []ExternalFixture{
		{Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "Old Northamptonians", Venue: "Ivor Preece Field"},
	}

	rows, changes := applySchedule(scheduleInput{
		Rows:        cloneRows(stored),
		Incoming:    dedupeIncomingFixtures(incoming, aliases),
		Teams:       seedTeamIndex(aliases, nil, stored),
		DefaultTime: "15:00",
		Now:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Location:    time.UTC,
	})
	if changes.Added != 0 || changes.Updated != 1 || len(rows) != 1 {
		t.Fatalf("expected the stored row to be matched, got changes=%+v rows=%d", changes, len(rows))
	}
	if rows[0].AwayTeam != "ONs" || rows[0].Venue != "Ivor Preece Field" {
		t.Fatalf("expected venue filled on the hand-typed row, got %+v", rows[0])
	}
}

func TestDedupeStoredFixtures_MergesAliasSpellings(t *testing.T) {
	t.Parallel()

	rows, removed := dedupeStoredFixtures([]fixture.Fixture{
		{Row: 1, Date: "Saturday 21 Feb 2026", HomeTeam: "Broadstreet", AwayTeam: "ONs", Status: "upcoming"},
		{Row: 2, Date: "2026-02-21", HomeTeam: "Broadstreet", AwayTeam: "Old Northamptonians", Status: "completed", HomeScore: fixture.Int(31), AwayScore: fixture.Int(12)},
	}, onsAliases())

	if removed != 1 || len(rows) != 1 {
		t.Fatalf("expected alias duplicate removed, got removed=%d rows=%d", removed, len(rows))
	}
	if rows[0].Status != fixture.StatusCompleted || *rows[0].HomeScore != 31 {
		t.Fatalf("expected result merged onto the first row, got %+v", rows[0])
	}
}

func TestApplyResults_MatchesAliasSpelledStoredRow(t *testing.T) {
	t.Parallel()

	aliases := onsAliases()
	rows := []fixture.Fixture{
		{Row: 1, Date: "Saturday 21 Feb 2026", Time: "15:00", HomeTeam: "Broadstreet", AwayTeam: "ONs", Status: "completed", HomeScore: fixture.Int(31), AwayScore: fixture.Int(12)},
	}
	played := time.Date(2026, 2, 21, 15, 0, 0, 0, time.UTC)

	out, changes := applyResults(cloneRows(rows), []ExternalResult{
		{Type: "RESULT", PlayedAt: played, HomeTeam: "Broadstreet RFC", AwayTeam: "Old Northamptonians RFC", HomeScore: 31, AwayScore: 12},
	}, seedTeamIndex(aliases, nil, rows), time.UTC)
	if changes.Matched != 1 || changes.Created != 0 || changes.Updated != 0 || len(out) != 1 {
		t.Fatalf("expected a quiet match on the hand-typed row, got changes=%+v rows=%d", changes, len(out))
	}

	out, changes = applyResults(cloneRows(rows), []ExternalResult{
		{Type: "RESULT", PlayedAt: played, HomeTeam: "Broadstreet", AwayTeam: "Old Northamptonians", HomeScore: 33, AwayScore: 12},
	}, seedTeamIndex(aliases, nil, rows), time.UTC)
	if changes.Updated != 1 || changes.Created != 0 || len(out) != 1 || *out[0].HomeScore != 33 {
		t.Fatalf("expected corrected score on the same row, got changes=%+v rows=%+v", changes, out)
	}
}
