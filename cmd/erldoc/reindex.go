package main

import (
	"fmt"

	"github.com/fwojciec/erldoc"
)

// Run executes the reindex command.
func (c *ReindexCmd) Run(deps *Dependencies) error {
	total := 0
	for _, locale := range deps.Config.Locales {
		paths, err := deps.Store.Reindex(deps.Ctx, locale, c.DryRun)
		if erldoc.ErrorCode(err) == erldoc.ENOTFOUND {
			deps.Logger.Debug("locale directory missing", "locale", locale)
			continue
		} else if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
			return err
		}
		for _, p := range paths {
			if c.DryRun {
				fmt.Fprintf(deps.Stdout, "would rewrite %s\n", p)
			} else {
				fmt.Fprintf(deps.Stdout, "rewrote %s\n", p)
			}
		}
		total += len(paths)
	}

	if total == 0 {
		fmt.Fprintln(deps.Stdout, "All records are up to date.")
	}
	return nil
}
