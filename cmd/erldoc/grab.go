package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/crawl"
	"github.com/fwojciec/erldoc/goquery"
	erlhttp "github.com/fwojciec/erldoc/http"
	"github.com/fwojciec/erldoc/prometheus"
	erlslog "github.com/fwojciec/erldoc/slog"
)

// Run executes the grab command.
func (c *GrabCmd) Run(deps *Dependencies) error {
	cfg, err := moduleConfig(deps, c.Discover)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	p := newPipeline(deps, cfg)
	p.Records = erlslog.NewLoggingRecordWriter(deps.Store, deps.Logger)

	var metrics *prometheus.Recorder
	if c.MetricsFile != "" {
		metrics = prometheus.NewRecorder(nil)
		p.Recorder = metrics
	}

	fmt.Fprintf(deps.Stdout, "Grabbing %d modules from %s\n", len(cfg.Modules), cfg.Host)
	report, err := p.Run(deps.Ctx, progressPrinter(deps))
	if report != nil {
		printReport(deps, report)
	}
	if metrics != nil && report != nil {
		if werr := metrics.WriteTextfile(c.MetricsFile, time.Now()); werr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(werr))
			if err == nil {
				err = werr
			}
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}
	return strictError(cfg, report)
}

// moduleConfig returns the configuration with the module list replaced by
// the modules found on the host when discover is set. The sitemap is tried
// first, then the module index page.
func moduleConfig(deps *Dependencies, discover bool) (*erldoc.Config, error) {
	if !discover {
		return deps.Config, nil
	}
	modules, err := erlhttp.DiscoverModules(deps.Ctx, deps.Sitemaps, deps.Config.BaseURL())
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		deps.Logger.Debug("no module pages in sitemap, reading module index", "url", deps.Config.IndexURL())
		if modules, err = indexModules(deps); err != nil {
			return nil, err
		}
	}
	if len(modules) == 0 {
		return nil, erldoc.Errorf(erldoc.ENOTFOUND, "no module pages found on %s", deps.Config.Host)
	}
	cfg := *deps.Config
	cfg.Modules = modules
	return &cfg, nil
}

func indexModules(deps *Dependencies) ([]string, error) {
	indexURL := deps.Config.IndexURL()
	html, err := deps.Fetcher.Fetch(deps.Ctx, indexURL)
	if err != nil {
		return nil, err
	}
	links, err := goquery.ExtractLinks(html, indexURL)
	if err != nil {
		return nil, err
	}
	return erldoc.ModuleNamesFromURLs(links), nil
}

// newPipeline wires a pipeline that writes the tag index but no records.
func newPipeline(deps *Dependencies, cfg *erldoc.Config) *crawl.Pipeline {
	return &crawl.Pipeline{
		Config:      cfg,
		Fetcher:     deps.Fetcher,
		Extractor:   goquery.NewExtractor(),
		Normalizer:  goquery.NewNormalizer(cfg.RoutePrefix, cfg.AnchorPolicy),
		Tags:        erlslog.NewLoggingTagWriter(deps.Store, deps.Logger),
		RateLimiter: crawl.NewDomainLimiter(cfg.RequestsPerSecond),
		Runs:        deps.Runs,
		Logger:      deps.Logger,
	}
}

func progressPrinter(deps *Dependencies) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.Module)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %v\n", event.Completed, event.Total, event.Module, event.Error)
		}
	}
}

func printReport(deps *Dependencies, report *crawl.Report) {
	fmt.Fprintf(deps.Stdout, "Saved %d modules, %d failed (%s, %s)\n",
		report.Saved, report.Failed, crawl.FormatBytes(report.Bytes), report.Duration.Round(time.Millisecond))
	if report.RunID != "" {
		fmt.Fprintf(deps.Stdout, "Run %s: %d changed\n", report.RunID, report.Changed)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(deps.Stderr, "failed %s at %s: %s: %s\n", f.Module, f.Stage, f.Kind, f.Message)
	}
}

func strictError(cfg *erldoc.Config, report *crawl.Report) error {
	if cfg.Strict && report.Failed > 0 {
		return erldoc.Errorf(erldoc.EINTERNAL, "%d of %d modules failed", report.Failed, len(report.Outcomes))
	}
	return nil
}
