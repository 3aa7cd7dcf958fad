// Package store persists the history of analysis runs.
package store

import (
	"context"
	"time"
)

// RunStatus is the outcome of a run
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// Run is one invocation of the batch analyzer
type Run struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Style      string    `json:"style"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Status     RunStatus `json:"status"`
	Files      int       `json:"files"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
}

// Duration returns the wall time of a finished run
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FileResult is the outcome of analyzing one source file within a run
type FileResult struct {
	RunID      string        `json:"run_id"`
	Source     string        `json:"source"`
	Output     string        `json:"output"`
	Status     string        `json:"status"`
	ErrorCode  string        `json:"error_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Tokens     int           `json:"tokens"`
	Lines      int           `json:"lines"`
	Duration   time.Duration `json:"duration"`
	SHA256     string        `json:"sha256,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// RunFilter defines criteria for listing runs
type RunFilter struct {
	Status RunStatus
	Root   string
	Since  time.Time
	Limit  int
}

// Store defines the interface for run history persistence
type Store interface {
	BeginRun(ctx context.Context, root, style string) (*Run, error)
	RecordResult(ctx context.Context, result *FileResult) error
	FinishRun(ctx context.Context, run *Run) error

	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
	Results(ctx context.Context, runID string) ([]*FileResult, error)

	// Prune removes finished runs older than the given age together with
	// their results and returns the number of runs removed.
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
