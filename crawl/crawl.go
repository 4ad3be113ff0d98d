// Package crawl provides documentation pipeline orchestration.
// It coordinates fetching, extraction, normalization and storage of module
// documentation pages.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/erldoc"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs every configured module through fetch, extract, normalize
// and write, then writes the tag index.
type Pipeline struct {
	Config      *erldoc.Config
	Fetcher     erldoc.Fetcher
	Extractor   erldoc.Extractor
	Normalizer  erldoc.Normalizer
	Records     erldoc.RecordWriter // nil skips record files (tags only)
	Tags        erldoc.TagWriter    // nil skips the tag index
	RateLimiter erldoc.DomainLimiter
	Runs        erldoc.RunService // nil disables run history
	Recorder    Recorder
	Logger      *slog.Logger
	RetryDelays []time.Duration // nil derives delays from Config.Retries
}

// Outcome is the final state of one module.
type Outcome struct {
	Module      string
	Stage       erldoc.Stage // StageDone or StageFailed
	Failure     *erldoc.Failure
	ContentHash string
	Bytes       int
	Tags        erldoc.Tags
}

// Report summarizes a pipeline run.
type Report struct {
	RunID    string
	Outcomes []Outcome // in module-list order
	Saved    int
	Failed   int
	Changed  int
	Bytes    int
	Failures []*erldoc.Failure
	Tags     erldoc.TagIndex
	Duration time.Duration
}

// ProgressEvent reports progress during a pipeline run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Module    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting pipeline progress.
type ProgressFunc func(event ProgressEvent)

// moduleResult holds the outcome of processing a single module.
type moduleResult struct {
	position int
	outcome  Outcome
}

// Run processes all configured modules. A module failure never aborts the
// run; it is recorded in the report. Run returns an error for an invalid
// configuration, a failed tag index write, or cancellation, and in the last
// two cases the report is returned alongside the error.
func (p *Pipeline) Run(ctx context.Context, progress ProgressFunc) (*Report, error) {
	if p.Config == nil {
		return nil, erldoc.Errorf(erldoc.EINVALID, "pipeline config required")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	modules := p.Config.Modules

	var previous map[string]string
	if p.Runs != nil {
		hashes, err := p.Runs.LatestContentHashes(ctx)
		if err != nil {
			p.logger().Warn("load previous run", "err", err)
		}
		previous = hashes
	}

	concurrency := p.Config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	resultCh := make(chan moduleResult, len(modules))
	total := len(modules)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, module := range modules {
			if gctx.Err() != nil {
				resultCh <- moduleResult{position: i, outcome: canceled(module, gctx.Err())}
				continue
			}
			g.Go(func() error {
				if gctx.Err() != nil {
					resultCh <- moduleResult{position: i, outcome: canceled(module, gctx.Err())}
					return nil
				}
				resultCh <- moduleResult{position: i, outcome: p.processModule(gctx, module)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order
	report := &Report{Outcomes: make([]Outcome, total)}
	completed := 0
	for result := range resultCh {
		completed++
		report.Outcomes[result.position] = result.outcome
		p.recorder().ModuleFinished(result.outcome)

		if progress == nil {
			continue
		}
		if result.outcome.Failure != nil {
			progress(ProgressEvent{
				Type:      ProgressFailed,
				Completed: completed,
				Total:     total,
				Module:    result.outcome.Module,
				Error:     result.outcome.Failure,
			})
		} else {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: completed,
				Total:     total,
				Module:    result.outcome.Module,
			})
		}
	}

	report.Tags = erldoc.TagIndex{}
	for _, o := range report.Outcomes {
		report.Bytes += o.Bytes
		if o.Failure != nil {
			report.Failed++
			report.Failures = append(report.Failures, o.Failure)
			continue
		}
		report.Saved++
		report.Tags = append(report.Tags, o.Tags)
		if previous != nil && previous[o.Module] != o.ContentHash {
			report.Changed++
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	if err := ctx.Err(); err != nil {
		report.Duration = time.Since(start)
		return report, erldoc.Errorf(erldoc.ECANCELED, "pipeline canceled: %v", err)
	}

	if p.Config.Tags && p.Tags != nil {
		if err := p.Tags.WriteTags(ctx, report.Tags); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)

	// A tags-only run writes no records, so its hashes must not mark
	// modules as unchanged for the next grab.
	if p.Runs != nil && p.Records != nil {
		p.recordRun(ctx, start, report)
	}

	return report, nil
}

// processModule runs one module through every stage. Errors are converted
// into a failure at the stage where they occurred.
func (p *Pipeline) processModule(ctx context.Context, module string) Outcome {
	fail := func(stage erldoc.Stage, err error) Outcome {
		return Outcome{
			Module:  module,
			Stage:   erldoc.StageFailed,
			Failure: erldoc.NewFailure(module, stage, err),
		}
	}

	source := p.Config.SourceURL(module)
	html, err := p.fetch(ctx, source)
	if err != nil {
		return fail(erldoc.StageFetching, err)
	}

	extracted, err := p.Extractor.Extract(html)
	if err != nil {
		return fail(erldoc.StageExtracting, err)
	}

	description, err := p.Normalizer.Normalize(module, extracted.Description)
	if err != nil {
		return fail(erldoc.StageNormalizing, err)
	}
	funcs, err := p.Normalizer.Normalize(module, extracted.Funcs)
	if err != nil {
		return fail(erldoc.StageNormalizing, err)
	}

	rec := &erldoc.DocRecord{
		Name:        module,
		Summary:     extracted.Summary,
		Description: description,
		Funcs:       funcs,
	}
	data, err := erldoc.EncodeJSON(rec)
	if err != nil {
		return fail(erldoc.StageWriting, erldoc.Errorf(erldoc.EINTERNAL, "encode record %s: %v", module, err))
	}

	if p.Records != nil {
		if err := p.Records.WriteRecords(ctx, p.Config.Locales, rec); err != nil {
			return fail(erldoc.StageWriting, err)
		}
	}

	return Outcome{
		Module:      module,
		Stage:       erldoc.StageDone,
		ContentHash: ComputeHash(string(data)),
		Bytes:       len(html),
		Tags: erldoc.Tags{
			Module:    module,
			FuncNames: extracted.FuncNames,
			Titles:    extracted.Titles,
		},
	}
}

// fetch waits for the host's rate limit and fetches source, retrying
// transient failures.
func (p *Pipeline) fetch(ctx context.Context, source string) (string, error) {
	if p.RateLimiter != nil {
		u, err := url.Parse(source)
		if err != nil {
			return "", erldoc.Errorf(erldoc.EINVALID, "invalid source URL %q: %v", source, err)
		}
		if err := p.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	fetchFn := func(ctx context.Context, url string) (string, error) {
		begin := time.Now()
		html, err := p.Fetcher.Fetch(ctx, url)
		p.recorder().FetchObserved(time.Since(begin), len(html), err)
		return html, err
	}
	return FetchWithRetryDelays(ctx, source, fetchFn, p.Logger, p.retryDelays())
}

// recordRun stores the run in the history. History is auxiliary, so a
// failure is logged rather than returned.
func (p *Pipeline) recordRun(ctx context.Context, start time.Time, report *Report) {
	run := &erldoc.Run{
		StartedAt:  start,
		FinishedAt: start.Add(report.Duration),
		Saved:      report.Saved,
		Failed:     report.Failed,
		Changed:    report.Changed,
	}

	results := make([]*erldoc.ModuleResult, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		r := &erldoc.ModuleResult{
			Module:      o.Module,
			Stage:       o.Stage,
			ContentHash: o.ContentHash,
		}
		if o.Failure != nil {
			r.Stage = erldoc.StageFailed
			r.Kind = o.Failure.Kind
			r.Message = string(o.Failure.Stage) + ": " + o.Failure.Message
		}
		results = append(results, r)
	}

	if err := p.Runs.CreateRun(ctx, run, results); err != nil {
		p.logger().Warn("record run", "err", err)
		return
	}
	report.RunID = run.ID
}

func (p *Pipeline) retryDelays() []time.Duration {
	if p.RetryDelays != nil {
		return p.RetryDelays
	}
	return RetryDelays(p.Config.Retries)
}

func (p *Pipeline) recorder() Recorder {
	if p.Recorder == nil {
		return NopRecorder{}
	}
	return p.Recorder
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// canceled is the outcome of a module that was never started.
func canceled(module string, cause error) Outcome {
	return Outcome{
		Module: module,
		Stage:  erldoc.StageFailed,
		Failure: erldoc.NewFailure(module, erldoc.StagePending,
			erldoc.Errorf(erldoc.ECANCELED, "not started: %v", cause)),
	}
}
