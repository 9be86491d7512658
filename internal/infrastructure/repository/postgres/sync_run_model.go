package postgres

import "time"

type syncRunTableModel struct {
	ID         string     `db:"id"`
	Kind       string     `db:"kind"`
	Trigger    string     `db:"trigger"`
	Status     string     `db:"status"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	Summary    string     `db:"summary"`
	Error      *string    `db:"error"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

type syncRunInsertModel struct {
	ID         string     `db:"id"`
	Kind       string     `db:"kind"`
	Trigger    string     `db:"trigger"`
	Status     string     `db:"status"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	Summary    string     `db:"summary"`
	Error      *string    `db:"error"`
}
