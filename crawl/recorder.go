package crawl

import "time"

// Recorder observes pipeline activity for metrics.
type Recorder interface {
	// ModuleFinished is called once per module with its final outcome.
	ModuleFinished(outcome Outcome)

	// FetchObserved is called after every fetch attempt, including retries.
	FetchObserved(duration time.Duration, bytes int, err error)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) ModuleFinished(Outcome) {}
func (NopRecorder) FetchObserved(time.Duration, int, error) {}
