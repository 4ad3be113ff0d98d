package erldoc

import (
	"context"
	"time"
)

// Run records one pipeline invocation.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Saved      int       `json:"saved"`
	Failed     int       `json:"failed"`
	Changed    int       `json:"changed"`
}

// ModuleResult records the outcome of one module within a run.
type ModuleResult struct {
	RunID       string `json:"runId"`
	Module      string `json:"module"`
	Stage       Stage  `json:"stage"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	ContentHash string `json:"contentHash"`
}

// Validate returns an error if the module result contains invalid fields.
func (r *ModuleResult) Validate() error {
	if r.Module == "" {
		return Errorf(EINVALID, "module result module required")
	}
	switch r.Stage {
	case StageDone:
		if r.ContentHash == "" {
			return Errorf(EINVALID, "content hash required for completed module %q", r.Module)
		}
	case StageFailed:
		if r.Kind == "" {
			return Errorf(EINVALID, "failure kind required for module %q", r.Module)
		}
	default:
		return Errorf(EINVALID, "module result stage must be terminal, got %q", string(r.Stage))
	}
	return nil
}

// RunService represents a service for recording pipeline runs.
type RunService interface {
	// CreateRun stores a run and its module results. The run ID is assigned
	// by the service.
	CreateRun(ctx context.Context, run *Run, results []*ModuleResult) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindModuleResults retrieves the module results of a run ordered by module.
	FindModuleResults(ctx context.Context, runID string) ([]*ModuleResult, error)

	// LatestContentHashes returns, per module, the content hash recorded by
	// the most recent run in which that module completed.
	LatestContentHashes(ctx context.Context) (map[string]string, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
