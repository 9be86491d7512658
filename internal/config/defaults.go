package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
)

//go:embed baseline.json
var defaultBaseline []byte

const ecalFeedFormat = "webcal://ics.ecal.com/ecal-sub/%s/RFU.ics"

// League roster with the ECAL subscription id of each club.
var defaultRoster = []struct {
	team   string
	feedID string
}{
	{team: "Market Harborough", feedID: "698b2e81e21aff00022f9704"},
	{team: "Northampton Old Scouts", feedID: "698b2ea6b22eb2000272b97c"},
	{team: "Broadstreet", feedID: "698b2ee8e21aff00022f970d"},
	{team: "Bedford Athletic", feedID: "698b2f75b22eb2000272b985"},
	{team: "Peterborough", feedID: "698b2fa3b22eb2000272b98d"},
	{team: "Stamford", feedID: "698b2fcfb22eb2000272b995"},
	{team: "Kettering", feedID: "698b2ffdb22eb2000272b996"},
	{team: "Oadby Wyggestonians", feedID: "698b3019b22eb2000272b999"},
	{team: "Olney", feedID: "698b304ce21aff00022f972b"},
	{team: "Daventry", feedID: "698b306fb22eb2000272b99f"},
	{team: "Old Coventrians", feedID: "698b308be21aff00022f972e"},
	{team: "Wellingborough", feedID: "698b30a8b22eb2000272b9a3"},
}

func defaultFeeds() []league.FeedSource {
	out := make([]league.FeedSource, 0, len(defaultRoster))
	for _, club := range defaultRoster {
		out = append(out, league.FeedSource{
			Name: club.team,
			URL:  fmt.Sprintf(ecalFeedFormat, club.feedID),
		})
	}
	return out
}

// defaultAliases folds the "<club> RFC" spelling used by the results API
// into the short names used everywhere else.
func defaultAliases() map[string]string {
	out := make(map[string]string, len(defaultRoster))
	for _, club := range defaultRoster {
		out[club.team+" RFC"] = club.team
	}
	return out
}

// loadBaseline decodes the standings snapshot from path, or the embedded
// snapshot when path is empty.
func loadBaseline(path string) (standing.Baseline, error) {
	raw := defaultBaseline
	path = strings.TrimSpace(path)
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return standing.Baseline{}, fmt.Errorf("read STANDINGS_BASELINE_FILE: %w", err)
		}
		raw = content
	}

	var baseline standing.Baseline
	if err := sonic.Unmarshal(raw, &baseline); err != nil {
		return standing.Baseline{}, fmt.Errorf("decode standings baseline: %w", err)
	}
	for i, row := range baseline.Rows {
		if strings.TrimSpace(row.Team) == "" {
			return standing.Baseline{}, fmt.Errorf("standings baseline row %d has no team", i+1)
		}
	}
	return baseline, nil
}
