package datekey

import (
	"testing"
	"time"
)

func TestMatchers_EachFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		matcher string
		input   string
		want    string
	}{
		{matcher: "iso", input: "2026-02-14", want: "2026-02-14"},
		{matcher: "compact", input: "20260214", want: "2026-02-14"},
		{matcher: "day-first", input: "14/02/2026", want: "2026-02-14"},
		{matcher: "day-first", input: "03.04.2026", want: "2026-04-03"},
		{matcher: "long", input: "Saturday 14 Feb 2026", want: "2026-02-14"},
		{matcher: "long", input: "Sat, 14th February 2026", want: "2026-02-14"},
		{matcher: "rfc3339", input: "2026-02-14T15:00:00Z", want: "2026-02-14"},
		{matcher: "fallback", input: "February 14, 2026", want: "2026-02-14"},
	}

	byName := make(map[string]Matcher, len(Matchers))
	for _, m := range Matchers {
		byName[m.Name] = m
	}

	for _, tc := range cases {
		m, ok := byName[tc.matcher]
		if !ok {
			t.Fatalf("matcher %q not registered", tc.matcher)
		}
		day, ok := m.Parse(tc.input)
		if !ok {
			t.Fatalf("matcher %s rejected %q", tc.matcher, tc.input)
		}
		if got := day.Format(KeyLayout); got != tc.want {
			t.Fatalf("matcher %s on %q: expected %s, got %s", tc.matcher, tc.input, tc.want, got)
		}
	}
}

func TestMatchers_Order(t *testing.T) {
	t.Parallel()

	want := []string{"iso", "compact", "day-first", "long", "rfc3339", "fallback"}
	if len(Matchers) != len(want) {
		t.Fatalf("expected %d matchers, got %d", len(want), len(Matchers))
	}
	for i, name := range want {
		if Matchers[i].Name != name {
			t.Fatalf("matcher %d: expected %s, got %s", i, name, Matchers[i].Name)
		}
	}
}

func TestKey_DayFirstWinsForAmbiguousDates(t *testing.T) {
	t.Parallel()

	if got := Key("01/02/2026"); got != "2026-02-01" {
		t.Fatalf("expected day-first reading, got %q", got)
	}
}

func TestKey_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "TBC", "31/02/2026", "2026-13-01", "45/01/2026", "not a date at all"} {
		if got := Key(input); got != "" {
			t.Fatalf("expected empty key for %q, got %q", input, got)
		}
	}
}

func TestIsPast_UsesCalendarDayInZone(t *testing.T) {
	t.Parallel()

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2026, 2, 14, 23, 30, 0, 0, time.UTC)

	if IsPast("Saturday 14 Feb 2026", now, london) {
		t.Fatalf("today must not be past")
	}
	if !IsPast("2026-02-13", now, london) {
		t.Fatalf("yesterday must be past")
	}
	if IsPast("garbage", now, london) {
		t.Fatalf("unparseable date must not be past")
	}
}

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"15:00":    "15:00",
		"9:05":     "09:05",
		"3:00 PM":  "15:00",
		"12:30 am": "00:30",
		"12:00 PM": "12:00",
		"3pm":      "15:00",
		"14.30":    "14:30",
		"":         "",
		"TBC":      "",
		"25:00":    "",
	}
	for input, want := range cases {
		if got := NormalizeTime(input); got != want {
			t.Fatalf("NormalizeTime(%q): expected %q, got %q", input, want, got)
		}
	}
	if got := TimeSortKey("TBC"); got != BlankTimeKey {
		t.Fatalf("expected blank sort key, got %q", got)
	}
}

func TestFormatDateAndTime(t *testing.T) {
	t.Parallel()

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	kickoff := time.Date(2026, 4, 11, 14, 0, 0, 0, time.UTC)

	if got := FormatDate(kickoff, london); got != "Saturday 11 Apr 2026" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := FormatTime(kickoff, london); got != "15:00" {
		t.Fatalf("unexpected BST time %q", got)
	}
}
