package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// StepLogger is the interface for pipeline step logging
type StepLogger interface {
	// LogStep logs a single step, timing it from the end of the previous one
	LogStep(phase, function, details string, err error)

	// LogStepWithDuration logs a step with explicit duration
	LogStepWithDuration(phase, function, details string, duration time.Duration, err error)

	// WithSource returns a logger tagging entries with the given source name
	WithSource(source string) StepLogger

	// Flush writes the report to the output file
	Flush() error

	// GetEntries returns all logged entries
	GetEntries() []StepEntry

	// GetReport generates the complete report
	GetReport() *Report
}

// StructuredLogger implements StepLogger. Each step is echoed to the progress
// writer as it is logged; Flush writes the JSON report.
type StructuredLogger struct {
	mu          sync.Mutex
	workflow    string
	source      string
	outputPath  string
	progress    io.Writer
	entries     []StepEntry
	startTime   time.Time
	lastStepEnd time.Time
	enabled     bool
}

// NewLogger creates a new structured logger. outputPath may be empty, in which
// case Flush writes nothing.
func NewLogger(workflow, outputPath string) *StructuredLogger {
	return &StructuredLogger{
		workflow:    workflow,
		outputPath:  outputPath,
		progress:    os.Stderr,
		entries:     make([]StepEntry, 0, 16),
		startTime:   time.Now(),
		lastStepEnd: time.Now(),
		enabled:     true,
	}
}

// NewDisabledLogger creates a no-op logger
func NewDisabledLogger() *StructuredLogger {
	return &StructuredLogger{
		enabled: false,
	}
}

// SetOutput sets the writer progress lines go to; nil silences them.
func (l *StructuredLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.progress = w
}

// LogStep logs a single step with automatic duration calculation
func (l *StructuredLogger) LogStep(phase, function, details string, err error) {
	l.mu.Lock()
	duration := time.Since(l.lastStepEnd)
	l.mu.Unlock()
	l.LogStepWithDuration(phase, function, details, duration, err)
}

// LogStepWithDuration logs a step with explicit duration
func (l *StructuredLogger) LogStepWithDuration(phase, function, details string, duration time.Duration, err error) {
	if !l.enabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		if details != "" {
			details = fmt.Sprintf("%s; error: %v", details, err)
		} else {
			details = fmt.Sprintf("error: %v", err)
		}
	}

	entry := StepEntry{
		Timestamp:  time.Now(),
		Phase:      phase,
		Function:   function,
		Status:     status,
		DurationNs: duration.Nanoseconds(),
		Details:    details,
		Source:     l.source,
	}

	l.entries = append(l.entries, entry)
	l.lastStepEnd = time.Now()

	if l.progress == nil {
		return
	}

	statusColor := "\033[32m" // green
	if err != nil {
		statusColor = "\033[31m" // red
	}
	fmt.Fprintf(l.progress, "  [%d] %s.%s: %s%s\033[0m (%v)\n",
		len(l.entries), phase, function, statusColor, status, duration)
}

// WithSource sets the source name for subsequent entries
func (l *StructuredLogger) WithSource(source string) StepLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source = source
	return l
}

// GetEntries returns all logged entries
func (l *StructuredLogger) GetEntries() []StepEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]StepEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

// GetReport generates the complete report
func (l *StructuredLogger) GetReport() *Report {
	l.mu.Lock()
	defer l.mu.Unlock()

	completedAt := time.Now()
	entries := make([]StepEntry, len(l.entries))
	copy(entries, l.entries)

	return &Report{
		Workflow:        l.workflow,
		Source:          l.source,
		StartedAt:       l.startTime,
		CompletedAt:     completedAt,
		TotalDurationMs: completedAt.Sub(l.startTime).Milliseconds(),
		Entries:         entries,
		Summary:         summarize(entries),
	}
}

func summarize(entries []StepEntry) Summary {
	summary := Summary{
		TotalSteps:      len(entries),
		Phases:          make(map[string]int),
		PhaseDurationNs: make(map[string]int64),
	}
	for _, entry := range entries {
		if entry.Status == StatusSuccess {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Phases[entry.Phase]++
		summary.PhaseDurationNs[entry.Phase] += entry.DurationNs
	}
	return summary
}

// Flush writes the JSON report to the output path and prints a one-line
// summary to the progress writer.
func (l *StructuredLogger) Flush() error {
	if !l.enabled || l.outputPath == "" {
		return nil
	}

	report := l.GetReport()

	if err := os.MkdirAll(filepath.Dir(l.outputPath), 0755); err != nil {
		return errors.Wrap(err, "create report directory")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	if err := os.WriteFile(l.outputPath, data, 0644); err != nil {
		return errors.Wrapf(err, "write report %s", l.outputPath)
	}

	l.printSummary(report)
	return nil
}

func (l *StructuredLogger) printSummary(report *Report) {
	l.mu.Lock()
	w := l.progress
	l.mu.Unlock()
	if w == nil {
		return
	}

	fmt.Fprintf(w, "%s %s: %d steps, %d failed, %dms; report written to %s\n",
		report.Workflow, report.Source, report.Summary.TotalSteps, report.Summary.Failed,
		report.TotalDurationMs, l.outputPath)
}
