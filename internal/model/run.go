package model

import "time"

// RunStatus represents the current state of a planning run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusFiltering RunStatus = "filtering"
	RunStatusScoring   RunStatus = "scoring"
	RunStatusPlanning  RunStatus = "planning"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one execution of the pipeline for a trip request.
type Run struct {
	ID        string      `json:"id"`
	Request   TripRequest `json:"request"`
	Status    RunStatus   `json:"status"`
	Result    *RunResult  `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunResult summarizes a completed run.
type RunResult struct {
	FilteredEvents int      `json:"filtered_events"`
	ScoredEvents   int      `json:"scored_events"`
	Cities         []string `json:"cities"`
	ArtifactsDir   string   `json:"artifacts_dir,omitempty"`
}

// Phase names recorded for each run.
const (
	PhaseFilter    = "filter"
	PhaseScore     = "score"
	PhasePlan      = "plan"
	PhaseItinerary = "itinerary"
)

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
)

// RunPhase represents a phase within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseResult holds the outcome of a pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
