package metrics

import "time"

// DispatchResult enumerates tag dispatch outcomes for counters.
type DispatchResult string

const (
	// DispatchHandled means a registered handler consumed the tag.
	DispatchHandled DispatchResult = "handled"
	// DispatchIgnored means no handler is registered for the tag name.
	DispatchIgnored DispatchResult = "ignored"
	// DispatchRecovered means the handler panicked and the panic was contained.
	DispatchRecovered DispatchResult = "recovered"
)

// Recorder defines observability hooks for tag dispatch and markdown rendering.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	IncTagDispatch(tag string, result DispatchResult)
	IncNeutralized(n int)
	ObserveRenderDuration(d time.Duration)
	IncBlocks(n int)
	IncFileResult(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncTagDispatch(string, DispatchResult) {}
func (NoopRecorder) IncNeutralized(int)                    {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)   {}
func (NoopRecorder) IncBlocks(int)                         {}
func (NoopRecorder) IncFileResult(bool)                    {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
