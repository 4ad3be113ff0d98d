package main

import (
	"fmt"

	"github.com/fwojciec/erldoc"
)

// Run executes the tags command. Modules are processed as in grab but no
// record file is written.
func (c *TagsCmd) Run(deps *Dependencies) error {
	cfg, err := moduleConfig(deps, c.Discover)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}
	if !cfg.Tags {
		err := erldoc.Errorf(erldoc.EINVALID, "tag index disabled by configuration")
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	p := newPipeline(deps, cfg)
	report, err := p.Run(deps.Ctx, progressPrinter(deps))
	if report != nil {
		printReport(deps, report)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s (%d modules)\n", deps.Store.TagsPath(), len(report.Tags))
	return strictError(cfg, report)
}
