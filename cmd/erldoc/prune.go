package main

import (
	"fmt"

	"github.com/fwojciec/erldoc"
)

// Run executes the prune command.
func (c *PruneCmd) Run(deps *Dependencies) error {
	paths, err := deps.Store.Prune(deps.Ctx, deps.Config.Locales, deps.Config.Modules, c.DryRun)
	for _, p := range paths {
		if c.DryRun {
			fmt.Fprintf(deps.Stdout, "would remove %s\n", p)
		} else {
			fmt.Fprintf(deps.Stdout, "removed %s\n", p)
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	if len(paths) == 0 {
		fmt.Fprintln(deps.Stdout, "Nothing to prune.")
	}
	return nil
}
