// Package league holds the immutable configuration of the league the
// service keeps tables for. A Config is built once at startup and handed to
// every service; its accessors return copies.
package league

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/domain/team"
	"github.com/riskibarqy/club-fixtures/internal/platform/datekey"
)

// FeedSource is one calendar feed the fixture sync reads.
type FeedSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ManualOverrideName labels a feed URL supplied with a single sync request.
const ManualOverrideName = "Manual Override"

// Settings is the raw input to New.
type Settings struct {
	Name            string
	TimeZone        string
	DefaultTime     string
	Aliases         map[string]string
	Feeds           []FeedSource
	FallbackFeedURL string
	Rules           standing.Rules
	Baseline        standing.Baseline
}

type Config struct {
	name            string
	location        *time.Location
	defaultTime     string
	aliases         team.Aliases
	feeds           []FeedSource
	fallbackFeedURL string
	rules           standing.Rules
	baseline        standing.Baseline
}

func New(s Settings) (Config, error) {
	zone := strings.TrimSpace(s.TimeZone)
	if zone == "" {
		zone = "UTC"
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		return Config{}, fmt.Errorf("load time zone %q: %w", zone, err)
	}

	defaultTime := datekey.NormalizeTime(s.DefaultTime)
	if strings.TrimSpace(s.DefaultTime) == "" {
		defaultTime = "15:00"
	}
	if defaultTime == "" {
		return Config{}, fmt.Errorf("default kickoff time %q is not a time", s.DefaultTime)
	}

	feeds := make([]FeedSource, 0, len(s.Feeds))
	for _, feed := range s.Feeds {
		feed.Name = strings.TrimSpace(feed.Name)
		feed.URL = strings.TrimSpace(feed.URL)
		if feed.URL == "" {
			continue
		}
		if feed.Name == "" {
			feed.Name = feed.URL
		}
		feeds = append(feeds, feed)
	}

	if err := s.Baseline.Validate(); err != nil {
		return Config{}, err
	}
	if s.Rules.Win < s.Rules.Draw || s.Rules.Draw < s.Rules.Loss {
		return Config{}, fmt.Errorf("points rules must satisfy win >= draw >= loss")
	}
	if s.Rules.LosingBonusMargin < 0 {
		return Config{}, fmt.Errorf("losing bonus margin must be >= 0")
	}

	return Config{
		name:            strings.TrimSpace(s.Name),
		location:        location,
		defaultTime:     defaultTime,
		aliases:         team.NewAliases(s.Aliases),
		feeds:           feeds,
		fallbackFeedURL: strings.TrimSpace(s.FallbackFeedURL),
		rules:           s.Rules,
		baseline:        cloneBaseline(s.Baseline),
	}, nil
}

func (c Config) Name() string {
	return c.name
}

func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c Config) DefaultTime() string {
	if c.defaultTime == "" {
		return "15:00"
	}
	return c.defaultTime
}

func (c Config) Aliases() team.Aliases {
	out := make(team.Aliases, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

func (c Config) Feeds() []FeedSource {
	return append([]FeedSource(nil), c.feeds...)
}

func (c Config) Rules() standing.Rules {
	return c.rules
}

func (c Config) Baseline() standing.Baseline {
	return cloneBaseline(c.baseline)
}

// Roster lists the team names of the configured feeds, used to seed team
// name matching.
func (c Config) Roster() []string {
	out := make([]string, 0, len(c.feeds))
	for _, feed := range c.feeds {
		if feed.Name != feed.URL {
			out = append(out, feed.Name)
		}
	}
	return out
}

// FeedSources picks the feeds for one sync: an override URL wins, then the
// team roster, then the fallback URL.
func (c Config) FeedSources(overrideURL string) []FeedSource {
	if url := strings.TrimSpace(overrideURL); url != "" {
		return []FeedSource{{Name: ManualOverrideName, URL: url}}
	}
	if len(c.feeds) > 0 {
		return c.Feeds()
	}
	if c.fallbackFeedURL != "" {
		return []FeedSource{{Name: "Fallback", URL: c.fallbackFeedURL}}
	}
	return nil
}

func cloneBaseline(b standing.Baseline) standing.Baseline {
	return standing.Baseline{
		Cutover: b.Cutover,
		Rows:    append([]standing.BaselineRow(nil), b.Rows...),
	}
}
