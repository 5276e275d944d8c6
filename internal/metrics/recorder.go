package metrics

import "time"

// ResultLabel enumerates operation outcomes for counters and histograms.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Result maps an error to its outcome label.
func Result(err error) ResultLabel {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}

// Recorder defines observability hooks. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveExtraction(d time.Duration, result ResultLabel)
	IncSnapshotCache(hit bool)
	ObserveRun(d time.Duration, result ResultLabel)
	ObserveTask(agent string, d time.Duration, result ResultLabel)
	SetListeners(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveExtraction(time.Duration, ResultLabel)   {}
func (NoopRecorder) IncSnapshotCache(bool)                          {}
func (NoopRecorder) ObserveRun(time.Duration, ResultLabel)          {}
func (NoopRecorder) ObserveTask(string, time.Duration, ResultLabel) {}
func (NoopRecorder) SetListeners(int)                               {}

// Multi forwards every observation to each recorder.
type Multi []Recorder

func (m Multi) ObserveExtraction(d time.Duration, result ResultLabel) {
	for _, r := range m {
		r.ObserveExtraction(d, result)
	}
}

func (m Multi) IncSnapshotCache(hit bool) {
	for _, r := range m {
		r.IncSnapshotCache(hit)
	}
}

func (m Multi) ObserveRun(d time.Duration, result ResultLabel) {
	for _, r := range m {
		r.ObserveRun(d, result)
	}
}

func (m Multi) ObserveTask(agent string, d time.Duration, result ResultLabel) {
	for _, r := range m {
		r.ObserveTask(agent, d, result)
	}
}

func (m Multi) SetListeners(n int) {
	for _, r := range m {
		r.SetListeners(n)
	}
}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
