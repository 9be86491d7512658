package fixture

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/club-fixtures/internal/domain/team"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
)

const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
)

// Fixture is one row of the fixtures table. Date keeps the display text it
// was stored with; Time is HH:mm when known.
type Fixture struct {
	// Row is the 1-based data row in the store, 0 for rows not yet saved.
	Row         int
	Date        string
	Time        string
	HomeTeam    string
	AwayTeam    string
	Venue       string
	Competition string
	Status      string
	HomeScore   *int
	AwayScore   *int
	HomeBP      *int
	AwayBP      *int
	// Extra carries values of columns this service does not own.
	Extra map[string]string
}

// Key builds the identity key date|home|away, or "" if any part is unusable.
func Key(date, home, away string) string {
	return KeyWith(nil, date, home, away)
}

// KeyWith resolves both team names through aliases before keying, so a
// hand-typed "ONs" and a feed's "Old Northamptonians" share one key.
func KeyWith(aliases team.Aliases, date, home, away string) string {
	dateKey := datekey.Key(date)
	homeKey := team.Key(aliases.Resolve(team.Clean(home)))
	awayKey := team.Key(aliases.Resolve(team.Clean(away)))
	if dateKey == "" || homeKey == "" || awayKey == "" {
		return ""
	}
	return dateKey + "|" + homeKey + "|" + awayKey
}

func (f Fixture) Key() string {
	return Key(f.Date, f.HomeTeam, f.AwayTeam)
}

func (f Fixture) KeyWith(aliases team.Aliases) string {
	return KeyWith(aliases, f.Date, f.HomeTeam, f.AwayTeam)
}

func IsCompletedStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusCompleted)
}

// HasCompletedResult reports whether a schedule resync must leave the
// row's status and scores alone.
func (f Fixture) HasCompletedResult() bool {
	return IsCompletedStatus(f.Status) || f.HasScores()
}

func (f Fixture) HasScores() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// Clone returns a copy that shares no pointers with f.
func (f Fixture) Clone() Fixture {
	out := f
	out.HomeScore = cloneInt(f.HomeScore)
	out.AwayScore = cloneInt(f.AwayScore)
	out.HomeBP = cloneInt(f.HomeBP)
	out.AwayBP = cloneInt(f.AwayBP)
	if f.Extra != nil {
		out.Extra = make(map[string]string, len(f.Extra))
		for k, v := range f.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// ParseScore reads an integer cell; anything else is treated as blank.
func ParseScore(raw string) *int {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		if f, ferr := strconv.ParseFloat(text, 64); ferr == nil && f == float64(int(f)) {
			value = int(f)
		} else {
			return nil
		}
	}
	return &value
}

func FormatScore(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func Int(v int) *int {
	return &v
}

func SameScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
