package logging

import (
	"time"
)

// StepEntry is one timed step of a pipeline run
type StepEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Phase      string    `json:"phase"`
	Function   string    `json:"function"`
	Status     string    `json:"status"` // SUCCESS or FAILURE
	DurationNs int64     `json:"duration_ns"`
	Details    string    `json:"details"`
	Source     string    `json:"source"`
}

// Report is the complete step report of a session
type Report struct {
	Workflow        string      `json:"workflow"` // file, eval, repl
	Source          string      `json:"source"`
	StartedAt       time.Time   `json:"started_at"`
	CompletedAt     time.Time   `json:"completed_at"`
	TotalDurationMs int64       `json:"total_duration_ms"`
	Entries         []StepEntry `json:"entries"`
	Summary         Summary     `json:"summary"`
}

// Summary provides aggregate statistics
type Summary struct {
	TotalSteps      int              `json:"total_steps"`
	Passed          int              `json:"passed"`
	Failed          int              `json:"failed"`
	Phases          map[string]int   `json:"phases"`
	PhaseDurationNs map[string]int64 `json:"phase_duration_ns"`
}

// Status constants
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Workflow names
const (
	WorkflowFile = "file"
	WorkflowEval = "eval"
	WorkflowREPL = "repl"
)

// Pipeline phases
const (
	PhaseLexer       = "Lexer"
	PhaseParser      = "Parser"
	PhaseInterpreter = "Interpreter"
	PhaseCache       = "Cache"
)
