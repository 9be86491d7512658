package httpapi

import (
	"github.com/riskibarqy/club-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

type listFixturesRequest struct {
	Status string `validate:"omitempty,oneof=upcoming completed"`
	Team   string `validate:"max=120"`
}

type syncFixturesRequest struct {
	ICSURL string `json:"ics_url" validate:"omitempty,url,max=2048"`
}

type listSyncRunsRequest struct {
	Limit int `validate:"min=0,max=100"`
}

type fixtureRequest struct {
	Date        string `json:"date" validate:"required,max=64"`
	Time        string `json:"time" validate:"max=16"`
	HomeTeam    string `json:"home_team" validate:"required,max=120"`
	AwayTeam    string `json:"away_team" validate:"required,max=120"`
	Venue       string `json:"venue" validate:"max=200"`
	Competition string `json:"competition" validate:"max=120"`
	Status      string `json:"status" validate:"omitempty,oneof=upcoming completed Upcoming Completed"`
	HomeScore   *int   `json:"home_score" validate:"omitempty,min=0"`
	AwayScore   *int   `json:"away_score" validate:"omitempty,min=0"`
	HomeBP      *int   `json:"home_bp" validate:"omitempty,min=0"`
	AwayBP      *int   `json:"away_bp" validate:"omitempty,min=0"`
}

func (r fixtureRequest) toInput() usecase.FixtureInput {
	return usecase.FixtureInput{
		Date:        r.Date,
		Time:        r.Time,
		HomeTeam:    r.HomeTeam,
		AwayTeam:    r.AwayTeam,
		Venue:       r.Venue,
		Competition: r.Competition,
		Status:      r.Status,
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
		HomeBP:      r.HomeBP,
		AwayBP:      r.AwayBP,
	}
}

type replaceFixturesRequest struct {
	Fixtures []fixtureRequest `json:"fixtures" validate:"required,min=1,dive"`
}

// internalJobRequest is the optional body QStash delivers to job endpoints.
type internalJobRequest struct {
	Reason string `json:"reason"`
	ICSURL string `json:"ics_url" validate:"omitempty,url,max=2048"`
}

type fixtureDTO struct {
	Row         int               `json:"row,omitempty"`
	Date        string            `json:"date"`
	Time        string            `json:"time,omitempty"`
	HomeTeam    string            `json:"home_team"`
	AwayTeam    string            `json:"away_team"`
	Venue       string            `json:"venue,omitempty"`
	Competition string            `json:"competition,omitempty"`
	Status      string            `json:"status"`
	HomeScore   *int              `json:"home_score,omitempty"`
	AwayScore   *int              `json:"away_score,omitempty"`
	HomeBP      *int              `json:"home_bp,omitempty"`
	AwayBP      *int              `json:"away_bp,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

func fixtureToDTO(item fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		Row:         item.Row,
		Date:        item.Date,
		Time:        item.Time,
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		Venue:       item.Venue,
		Competition: item.Competition,
		Status:      item.Status,
		HomeScore:   item.HomeScore,
		AwayScore:   item.AwayScore,
		HomeBP:      item.HomeBP,
		AwayBP:      item.AwayBP,
		Extra:       item.Extra,
	}
}

func fixturesToDTO(rows []fixture.Fixture) []fixtureDTO {
	items := make([]fixtureDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, fixtureToDTO(row))
	}
	return items
}

type fixtureWriteDTO struct {
	Fixture        *fixtureDTO `json:"fixture,omitempty"`
	TotalRows      int         `json:"total_rows"`
	Standings      string      `json:"standings"`
	StandingsTeams int         `json:"standings_teams,omitempty"`
	StandingsError string      `json:"standings_error,omitempty"`
}

func fixtureWriteToDTO(result usecase.FixtureWriteResult) fixtureWriteDTO {
	out := fixtureWriteDTO{
		TotalRows:      result.TotalRows,
		Standings:      result.Standings,
		StandingsTeams: result.StandingsTeams,
		StandingsError: result.StandingsError,
	}
	if result.Fixture != nil {
		item := fixtureToDTO(*result.Fixture)
		out.Fixture = &item
	}
	return out
}

type adminOverviewDTO struct {
	TotalFixtures     int                 `json:"total_fixtures"`
	CompletedFixtures int                 `json:"completed_fixtures"`
	Upcoming          []fixtureDTO        `json:"upcoming"`
	Standings         []standing.Standing `json:"standings"`
	LastRun           *syncrun.Run        `json:"last_run,omitempty"`
	SyncInProgress    bool                `json:"sync_in_progress"`
}

func overviewToDTO(overview usecase.AdminOverview) adminOverviewDTO {
	table := overview.Standings
	if table == nil {
		table = []standing.Standing{}
	}
	return adminOverviewDTO{
		TotalFixtures:     overview.TotalFixtures,
		CompletedFixtures: overview.CompletedFixtures,
		Upcoming:          fixturesToDTO(overview.Upcoming),
		Standings:         table,
		LastRun:           overview.LastRun,
		SyncInProgress:    overview.SyncInProgress,
	}
}

type standingsRecalculatedDTO struct {
	RunID string              `json:"run_id"`
	Teams int                 `json:"teams"`
	Table []standing.Standing `json:"table"`
}
