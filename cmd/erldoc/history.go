package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/erldoc"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := erldoc.Errorf(erldoc.EINVALID, "run history requires --db")
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	if c.RunID != "" {
		return c.showRun(deps)
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, erldoc.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  saved=%d failed=%d changed=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Saved, r.Failed, r.Changed)
	}
	return nil
}

func (c *HistoryCmd) showRun(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}
	results, err := deps.Runs.FindModuleResults(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s (%s, %s)\n",
		run.ID, run.StartedAt.Format(time.RFC3339), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	for _, r := range results {
		if r.Stage == erldoc.StageDone {
			fmt.Fprintf(deps.Stdout, "  %-24s done    %s\n", r.Module, r.ContentHash)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %-24s failed  %s: %s\n", r.Module, r.Kind, r.Message)
	}
	return nil
}
