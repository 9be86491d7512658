package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID          int64         `db:"id"`
	Position    int           `db:"position"`
	MatchDate   string        `db:"match_date"`
	KickoffTime string        `db:"kickoff_time"`
	HomeTeam    string        `db:"home_team"`
	AwayTeam    string        `db:"away_team"`
	Venue       string        `db:"venue"`
	Competition string        `db:"competition"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	HomeBP      sql.NullInt64 `db:"home_bp"`
	AwayBP      sql.NullInt64 `db:"away_bp"`
	Extra       string        `db:"extra"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type fixtureInsertModel struct {
	Position    int           `db:"position"`
	MatchDate   string        `db:"match_date"`
	KickoffTime string        `db:"kickoff_time"`
	HomeTeam    string        `db:"home_team"`
	AwayTeam    string        `db:"away_team"`
	Venue       string        `db:"venue"`
	Competition string        `db:"competition"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	HomeBP      sql.NullInt64 `db:"home_bp"`
	AwayBP      sql.NullInt64 `db:"away_bp"`
	Extra       string        `db:"extra"`
}
