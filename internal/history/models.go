package history

import (
	"strings"
	"time"
)

// Status describes the outcome of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one separation invocation.
type Run struct {
	ID           string
	Tool         string
	Model        string
	InputPath    string
	OutputDir    string
	Stems        []string
	Status       Status
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns the run time, or zero while the run is unfinished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func joinStems(stems []string) string {
	return strings.Join(stems, ",")
}

func splitStems(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
