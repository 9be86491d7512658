package postgres

import "time"

type standingTableModel struct {
	ID               int64      `db:"id"`
	Position         int        `db:"position"`
	Team             string     `db:"team"`
	Played           int        `db:"played"`
	Won              int        `db:"won"`
	Drawn            int        `db:"drawn"`
	Lost             int        `db:"lost"`
	PointsFor        int        `db:"points_for"`
	PointsAgainst    int        `db:"points_against"`
	PointsDifference int        `db:"points_difference"`
	TryBonus         int        `db:"try_bonus"`
	LosingBonus      int        `db:"losing_bonus"`
	BonusPoints      int        `db:"bonus_points"`
	Points           int        `db:"points"`
	Highlight        bool       `db:"highlight"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type standingInsertModel struct {
	Position         int    `db:"position"`
	Team             string `db:"team"`
	Played           int    `db:"played"`
	Won              int    `db:"won"`
	Drawn            int    `db:"drawn"`
	Lost             int    `db:"lost"`
	PointsFor        int    `db:"points_for"`
	PointsAgainst    int    `db:"points_against"`
	PointsDifference int    `db:"points_difference"`
	TryBonus         int    `db:"try_bonus"`
	LosingBonus      int    `db:"losing_bonus"`
	BonusPoints      int    `db:"bonus_points"`
	Points           int    `db:"points"`
	Highlight        bool   `db:"highlight"`
}

type baselineTableModel struct {
	ID            int64      `db:"id"`
	Cutover       string     `db:"cutover"`
	Team          string     `db:"team"`
	Played        int        `db:"played"`
	Won           int        `db:"won"`
	Drawn         int        `db:"drawn"`
	Lost          int        `db:"lost"`
	PointsFor     int        `db:"points_for"`
	PointsAgainst int        `db:"points_against"`
	TryBonus      int        `db:"try_bonus"`
	LosingBonus   int        `db:"losing_bonus"`
	Points        int        `db:"points"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}
