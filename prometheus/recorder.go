// Package prometheus records pipeline metrics with the Prometheus client
// and writes them as a node-exporter textfile.
package prometheus

import (
	"time"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/crawl"
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "erldoc"

// Ensure Recorder implements crawl.Recorder at compile time.
var _ crawl.Recorder = (*Recorder)(nil)

// Recorder implements crawl.Recorder on a private registry.
type Recorder struct {
	registry      *prom.Registry
	modules       *prom.CounterVec
	fetchDuration *prom.HistogramVec
	fetchedBytes  prom.Counter
	lastRun       prom.Gauge
}

// NewRecorder constructs and registers the pipeline metrics. A nil registry
// selects a fresh one.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		modules: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "modules_total",
			Help:      "Modules processed by final result and failing stage",
		}, []string{"result", "stage", "kind"}),
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of individual fetch attempts",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		fetchedBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetched_bytes_total",
			Help:      "Bytes of HTML fetched from the documentation host",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
	}
	reg.MustRegister(r.modules, r.fetchDuration, r.fetchedBytes, r.lastRun)
	return r
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prom.Registry {
	return r.registry
}

// ModuleFinished counts a module by its outcome.
func (r *Recorder) ModuleFinished(outcome crawl.Outcome) {
	if outcome.Failure == nil {
		r.modules.WithLabelValues("done", "", "").Inc()
		return
	}
	r.modules.WithLabelValues("failed", string(outcome.Failure.Stage), outcome.Failure.Kind).Inc()
}

// FetchObserved records the duration and size of one fetch attempt.
func (r *Recorder) FetchObserved(d time.Duration, bytes int, err error) {
	result := "success"
	if err != nil {
		result = erldoc.ErrorCode(err)
	}
	r.fetchDuration.WithLabelValues(result).Observe(d.Seconds())
	r.fetchedBytes.Add(float64(bytes))
}

// WriteTextfile stamps the run completion time and writes all metrics to
// path in the text exposition format.
func (r *Recorder) WriteTextfile(path string, finished time.Time) error {
	r.lastRun.Set(float64(finished.Unix()))
	if err := prom.WriteToTextfile(path, r.registry); err != nil {
		return erldoc.Errorf(erldoc.EIO, "write metrics %s: %v", path, err)
	}
	return nil
}
