// Package metrics records build observability counters.
//
// Components receive a Recorder through dependency injection and default
// to NoopRecorder, so metrics can be enabled by swapping implementations
// without touching call sites.
package metrics

import "time"

// Recorder defines the build metrics surface.
type Recorder interface {
	IncPagesRendered()
	IncPagesSkipped()
	IncItemsFailed(category string)
	ObserveBuildDuration(d time.Duration)
}

// NoopRecorder is the default Recorder; every method is a no-op.
type NoopRecorder struct{}

func (NoopRecorder) IncPagesRendered()                  {}
func (NoopRecorder) IncPagesSkipped()                   {}
func (NoopRecorder) IncItemsFailed(string)              {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
