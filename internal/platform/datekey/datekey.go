// Package datekey turns the free-text dates and kickoff times found in
// spreadsheets, calendar feeds and the results API into comparable keys.
//
// Parsing walks Matchers in order and stops at the first hit. Anything no
// matcher accepts yields an empty key; callers treat that as "cannot be
// matched" and skip the row instead of failing.
package datekey

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const KeyLayout = "2006-01-02"

// Matcher recognises one date shape and returns the calendar day at UTC midnight.
type Matcher struct {
	Name  string
	Parse func(text string) (time.Time, bool)
}

var (
	isoRegex      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	compactRegex  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	dayFirstRegex = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)
	longRegex     = regexp.MustCompile(`^(?:[A-Za-z]+,?\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,})\.?,?\s+(\d{4})$`)
	spaceRegex    = regexp.MustCompile(`\s+`)
)

var monthByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Matchers is the ordered list consulted by Parse.
var Matchers = []Matcher{
	{Name: "iso", Parse: parseISO},
	{Name: "compact", Parse: parseCompact},
	{Name: "day-first", Parse: parseDayFirst},
	{Name: "long", Parse: parseLong},
	{Name: "rfc3339", Parse: parseRFC3339},
	{Name: "fallback", Parse: parseFallback},
}

// Parse returns the calendar day described by raw.
func Parse(raw string) (time.Time, bool) {
	text := strings.TrimSpace(spaceRegex.ReplaceAllString(raw, " "))
	if text == "" {
		return time.Time{}, false
	}

	for _, m := range Matchers {
		if day, ok := m.Parse(text); ok {
			return day, true
		}
	}
	return time.Time{}, false
}

// Key returns raw as yyyy-MM-dd, or "" when it cannot be parsed.
func Key(raw string) string {
	day, ok := Parse(raw)
	if !ok {
		return ""
	}
	return day.Format(KeyLayout)
}

// IsPast reports whether raw is strictly before today in loc.
// Unparseable dates are never past.
func IsPast(raw string, now time.Time, loc *time.Location) bool {
	key := Key(raw)
	if key == "" {
		return false
	}
	return key < Today(now, loc)
}

// Today is now's calendar day in loc as a key.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(KeyLayout)
}

func civil(year int, month time.Month, day int) (time.Time, bool) {
	if year < 1 || month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(parts ...string) []int {
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

func parseISO(text string) (time.Time, bool) {
	m := isoRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	n := atoi(m[1], m[2], m[3])
	return civil(n[0], time.Month(n[1]), n[2])
}

func parseCompact(text string) (time.Time, bool) {
	m := compactRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	n := atoi(m[1], m[2], m[3])
	return civil(n[0], time.Month(n[1]), n[2])
}

// dd/mm/yyyy wins over mm/dd/yyyy whenever the first segment can be a day.
func parseDayFirst(text string) (time.Time, bool) {
	m := dayFirstRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	n := atoi(m[1], m[2], m[3])
	if n[0] > 31 || n[2] <= 1900 {
		return time.Time{}, false
	}
	return civil(n[2], time.Month(n[1]), n[0])
}

func parseLong(text string) (time.Time, bool) {
	m := longRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthByPrefix[strings.ToLower(m[2][:3])]
	if !ok {
		return time.Time{}, false
	}
	n := atoi(m[1], m[3])
	return civil(n[1], month, n[0])
}

func parseRFC3339(text string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		t, err := time.Parse(layout, text)
		if err == nil {
			return civil(t.Year(), t.Month(), t.Day())
		}
	}
	return time.Time{}, false
}

func parseFallback(text string) (time.Time, bool) {
	t, err := dateparse.ParseAny(text, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return civil(t.Year(), t.Month(), t.Day())
}
