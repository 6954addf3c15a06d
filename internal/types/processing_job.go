package types

import (
	"time"

	"github.com/google/uuid"
)

// JobState is the lifecycle state of a resume processing job.
type JobState string

const (
	StateQueued      JobState = "queued"
	StateParsing     JobState = "parsing"
	StateAggregating JobState = "aggregating"
	StateMatching    JobState = "matching"
	StateCompleted   JobState = "completed"
	StateFailed      JobState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Progress checkpoints reported as each stage begins. Matching reports 90
// rather than 100 because persistence of results still follows it.
const (
	ProgressQueued      = 0
	ProgressParsing     = 25
	ProgressAggregating = 50
	ProgressMatching    = 90
	ProgressCompleted   = 100
)

// ProcessingJob tracks one resume's journey from upload to matched results.
// Only the orchestrator mutates it.
type ProcessingJob struct {
	ID           uuid.UUID `json:"id"`
	ResumeKey    string    `json:"resume_key"` // resume identity + version
	ProfileID    uuid.UUID `json:"profile_id,omitempty"`
	State        JobState  `json:"state"`
	Progress     int       `json:"progress"`
	Error        string    `json:"error,omitempty"`
	AttemptCount int       `json:"attempt_count"`
	MatchCount   int       `json:"match_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Status is the outward-facing view of a processing job, consumed by
// whatever API or UI layer surrounds the engine.
type Status struct {
	ID       uuid.UUID `json:"id"`
	State    JobState  `json:"state"`
	Progress int       `json:"progress"`
	Error    string    `json:"error,omitempty"`
}

// Status projects the job onto its outward-facing fields.
func (j *ProcessingJob) Status() Status {
	return Status{ID: j.ID, State: j.State, Progress: j.Progress, Error: j.Error}
}
