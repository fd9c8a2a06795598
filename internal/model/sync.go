package model

import "time"

const (
	SyncStatusQueued    = "queued"
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncRun tracks one background inventory pull from Nautobot.
type SyncRun struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Total       int        `json:"total_devices"`
	Processed   int        `json:"processed_devices"`
	Error       string     `json:"error,omitempty"`
	RequestedBy string     `json:"requested_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func (r SyncRun) Done() bool {
	return r.Status == SyncStatusCompleted || r.Status == SyncStatusFailed
}
