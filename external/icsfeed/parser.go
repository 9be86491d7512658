package icsfeed

import (
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

var (
	nonPrintRegex  = regexp.MustCompile(`[^\x20-\x7E]+`)
	vsRegex        = regexp.MustCompile(`(?i)\s+vs\.?\s+`)
	vRegex         = regexp.MustCompile(`(?i)\s+v\.?\s+`)
	dateOnlyRegex  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	timestampRegex = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})?(Z)?$`)
)

const (
	sideTrimCutset = "-: \t"
	defaultKickoff = "15:00"
)

// ParseOptions controls how floating times and the completed status are
// resolved.
type ParseOptions struct {
	Location    *time.Location
	DefaultTime string
	Now         time.Time
}

func (o ParseOptions) normalize() ParseOptions {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if datekey.NormalizeTime(o.DefaultTime) == "" {
		o.DefaultTime = defaultKickoff
	} else {
		o.DefaultTime = datekey.NormalizeTime(o.DefaultTime)
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Parse extracts "home vs away" fixtures from calendar text. Events that do
// not name two sides or have no usable start date are dropped. Repeated
// events within the feed collapse onto the first copy. Text that is not a
// calendar is an error.
func Parse(text string, opts ParseOptions) ([]usecase.ExternalFixture, error) {
	opts = opts.normalize()

	cal, err := ics.ParseCalendarWithOptions(
		strings.NewReader(strings.TrimLeft(text, "\ufeff \t\r\n")),
		ics.WithUnknownPropertyHandler(ics.AcceptUnknownPropertyHandler),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "parse calendar")
	}

	out := make([]usecase.ExternalFixture, 0)
	positions := make(map[string]int)
	for _, event := range cal.Events() {
		item, ok := parseEvent(event, opts)
		if !ok {
			continue
		}

		key := fixture.Key(item.Date, item.HomeTeam, item.AwayTeam)
		if key == "" {
			continue
		}
		if pos, exists := positions[key]; exists {
			fillBlanks(&out[pos], item)
			continue
		}
		positions[key] = len(out)
		out = append(out, item)
	}
	return out, nil
}

// propertyText returns the first occurrence of a property, already unescaped.
func propertyText(event *ics.VEvent, name ics.ComponentProperty) string {
	prop := event.GetProperty(name)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

func parseEvent(event *ics.VEvent, opts ParseOptions) (usecase.ExternalFixture, bool) {
	home, away, ok := SplitTeams(propertyText(event, ics.ComponentPropertySummary))
	if !ok {
		return usecase.ExternalFixture{}, false
	}

	date, kickoff, ok := parseStart(event.GetProperty(ics.ComponentPropertyDtStart), opts)
	if !ok {
		return usecase.ExternalFixture{}, false
	}

	status := fixture.StatusUpcoming
	if datekey.IsPast(date, opts.Now, opts.Location) {
		status = fixture.StatusCompleted
	}

	return usecase.ExternalFixture{
		Date:        date,
		Time:        kickoff,
		HomeTeam:    home,
		AwayTeam:    away,
		Venue:       propertyText(event, ics.ComponentPropertyLocation),
		Competition: competitionFrom(propertyText(event, ics.ComponentPropertyDescription)),
		Status:      status,
	}, true
}

// SplitTeams reads "Home vs Away" or "Home v Away" from an event title.
func SplitTeams(summary string) (string, string, bool) {
	cleaned := strings.Join(strings.Fields(nonPrintRegex.ReplaceAllString(summary, " ")), " ")
	if cleaned == "" {
		return "", "", false
	}

	parts := vsRegex.Split(cleaned, -1)
	if len(parts) != 2 {
		parts = vRegex.Split(cleaned, -1)
	}
	if len(parts) != 2 {
		return "", "", false
	}

	home := strings.Trim(parts[0], sideTrimCutset)
	away := strings.Trim(parts[1], sideTrimCutset)
	if home == "" || away == "" {
		return "", "", false
	}
	return home, away, true
}

func parseStart(prop *ics.IANAProperty, opts ParseOptions) (string, string, bool) {
	if prop == nil {
		return "", "", false
	}
	value := strings.TrimSpace(prop.Value)
	if value == "" {
		return "", "", false
	}

	allDay := dateOnlyRegex.MatchString(value) ||
		(strings.EqualFold(param(prop, ics.ParameterValue), string(ics.ValueDataTypeDate)) && len(value) >= 8)
	if allDay {
		day, ok := datekey.Parse(value[:8])
		if !ok {
			return "", "", false
		}
		return datekey.FormatDate(day, time.UTC), opts.DefaultTime, true
	}

	if m := timestampRegex.FindStringSubmatch(value); m != nil {
		loc := opts.Location
		if m[7] == "Z" {
			loc = time.UTC
		} else if tzid := param(prop, ics.ParameterTzid); tzid != "" {
			if zone, err := time.LoadLocation(tzid); err == nil {
				loc = zone
			}
		}
		layout := "20060102T1504"
		raw := m[1] + m[2] + m[3] + "T" + m[4] + m[5]
		if m[6] != "" {
			layout += "05"
			raw += m[6]
		}
		start, err := time.ParseInLocation(layout, raw, loc)
		if err != nil {
			return "", "", false
		}
		return datekey.FormatDate(start, opts.Location), datekey.FormatTime(start, opts.Location), true
	}

	day, ok := datekey.Parse(value)
	if !ok {
		return "", "", false
	}
	return datekey.FormatDate(day, time.UTC), opts.DefaultTime, true
}

func param(prop *ics.IANAProperty, name ics.Parameter) string {
	for key, values := range prop.ICalParameters {
		if strings.EqualFold(key, string(name)) && len(values) > 0 {
			return strings.Trim(strings.TrimSpace(values[0]), `"`)
		}
	}
	return ""
}

func competitionFrom(description string) string {
	if description == "" {
		return ""
	}
	first, _, _ := strings.Cut(description, "\n")
	first, _, _ = strings.Cut(first, "|")
	return strings.TrimSpace(first)
}

func fillBlanks(dst *usecase.ExternalFixture, src usecase.ExternalFixture) {
	if dst.Time == "" {
		dst.Time = src.Time
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	if dst.Competition == "" {
		dst.Competition = src.Competition
	}
}
