package syncrun

import "time"

type Kind string

const (
	KindFixtures  Kind = "fixtures"
	KindResults   Kind = "results"
	KindStandings Kind = "standings"
)

type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerSchedule Trigger = "schedule"
	TriggerJob      Trigger = "job"
	TriggerCLI      Trigger = "cli"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run records one sync invocation and the summary it produced.
type Run struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Trigger    Trigger        `json:"trigger"`
	Status     Status         `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Summary    map[string]any `json:"summary,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (r Run) Finished() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

func ParseKind(value string) (Kind, bool) {
	switch Kind(value) {
	case KindFixtures, KindResults, KindStandings:
		return Kind(value), true
	default:
		return "", false
	}
}
