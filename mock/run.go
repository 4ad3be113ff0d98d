package mock

import (
	"context"

	"github.com/fwojciec/erldoc"
)

var _ erldoc.RunService = (*RunService)(nil)

// RunService is a mock implementation of erldoc.RunService.
type RunService struct {
	CreateRunFn           func(ctx context.Context, run *erldoc.Run, results []*erldoc.ModuleResult) error
	FindRunByIDFn         func(ctx context.Context, id string) (*erldoc.Run, error)
	FindRunsFn            func(ctx context.Context, filter erldoc.RunFilter) ([]*erldoc.Run, error)
	FindModuleResultsFn   func(ctx context.Context, runID string) ([]*erldoc.ModuleResult, error)
	LatestContentHashesFn func(ctx context.Context) (map[string]string, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *erldoc.Run, results []*erldoc.ModuleResult) error {
	return s.CreateRunFn(ctx, run, results)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*erldoc.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter erldoc.RunFilter) ([]*erldoc.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindModuleResults(ctx context.Context, runID string) ([]*erldoc.ModuleResult, error) {
	return s.FindModuleResultsFn(ctx, runID)
}

func (s *RunService) LatestContentHashes(ctx context.Context) (map[string]string, error) {
	return s.LatestContentHashesFn(ctx)
}
