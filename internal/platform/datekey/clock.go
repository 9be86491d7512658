package datekey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BlankTimeKey sorts fixtures without a usable kickoff after timed ones.
const BlankTimeKey = "99:99"

var (
	clock24Regex = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)
	clock12Regex = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?\s*([AP])\.?M\.?$`)
	dayNames     = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	shortMonths  = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// NormalizeTime converts "15:00", "3:00 PM", "3pm" or "15.00" to HH:mm.
// It returns "" for blank or unrecognised input.
func NormalizeTime(raw string) string {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return ""
	}

	if m := clock12Regex.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return ""
		}
		if m[3] == "P" && hour < 12 {
			hour += 12
		}
		if m[3] == "A" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	if m := clock24Regex.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return ""
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	return ""
}

// TimeSortKey is NormalizeTime with BlankTimeKey for anything unusable.
func TimeSortKey(raw string) string {
	if key := NormalizeTime(raw); key != "" {
		return key
	}
	return BlankTimeKey
}

// FormatDate renders the calendar day of t in loc as "Saturday 15 Feb 2026".
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return fmt.Sprintf("%s %d %s %d", dayNames[local.Weekday()], local.Day(), shortMonths[local.Month()-1], local.Year())
}

// FormatTime renders t in loc as HH:mm.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("15:04")
}
