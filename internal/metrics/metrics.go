// Package metrics records operational metrics of a generator run through a
// small, backend-agnostic interface.
//
// A global backend defaults to a no-op, so instrumentation is always safe to
// call. Concrete systems (Prometheus Pushgateway, Datadog) live in
// subpackages and are installed with SetBackend by the wiring layer.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal       = "schemagen_step_total"
	StepDuration    = "schemagen_step_duration_seconds"
	TablesTotal     = "schemagen_tables_total"
	StatementsTotal = "schemagen_statements_total"
)

// Table outcomes counted under TablesTotal.
const (
	TableRendered = "rendered"
	TableEmpty    = "empty"
	TableFailed   = "failed"
	TableDegraded = "degraded"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one run step
// ("load", "generate", "write").
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordTable counts one entity by outcome (TableRendered, TableEmpty,
// TableFailed, TableDegraded).
func RecordTable(job, outcome string) {
	backend.IncCounter(TablesTotal, 1, Labels{
		"job":  job,
		"kind": outcome,
	})
}

// RecordStatements counts CREATE TABLE statements written by a run.
func RecordStatements(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(StatementsTotal, float64(delta), Labels{
		"job": job,
	})
}
