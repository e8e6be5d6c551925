// Package metrics provides observability hooks for registry builds and
// queries. Components receive a Recorder by injection; NoopRecorder is the
// default so metrics stay optional without nil checks at call sites.
package metrics

import "time"

// OutcomeLabel enumerates build result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for registry operations.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
	SetPagesLoaded(n int)
	ObserveVerifyDuration(d time.Duration)
	SetBrokenLinks(n int)
	IncResolve(hit bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)  {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)        {}
func (NoopRecorder) SetPagesLoaded(int)                  {}
func (NoopRecorder) ObserveVerifyDuration(time.Duration) {}
func (NoopRecorder) SetBrokenLinks(int)                  {}
func (NoopRecorder) IncResolve(bool)                     {}
