package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Strob0t/DocuCrew/internal/metrics"
)

const meterName = "docucrew"

// Metrics holds the DocuCrew metric instruments. It implements metrics.Recorder.
type Metrics struct {
	ExtractDuration metric.Float64Histogram
	SnapshotCache   metric.Int64Counter
	RunDuration     metric.Float64Histogram
	TaskDuration    metric.Float64Histogram
	Listeners       metric.Int64Gauge
}

var _ metrics.Recorder = (*Metrics)(nil)

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ExtractDuration, err = meter.Float64Histogram("docucrew.extraction.duration_seconds",
		metric.WithDescription("Snapshot extraction duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.SnapshotCache, err = meter.Int64Counter("docucrew.snapshot_cache.lookups",
		metric.WithDescription("Snapshot cache lookups"))
	if err != nil {
		return nil, err
	}

	m.RunDuration, err = meter.Float64Histogram("docucrew.run.duration_seconds",
		metric.WithDescription("Documentation run duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.TaskDuration, err = meter.Float64Histogram("docucrew.task.duration_seconds",
		metric.WithDescription("Engine task duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.Listeners, err = meter.Int64Gauge("docucrew.progress.listeners",
		metric.WithDescription("Connected progress listeners"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) ObserveExtraction(d time.Duration, result metrics.ResultLabel) {
	m.ExtractDuration.Record(context.Background(), d.Seconds(),
		metric.WithAttributes(attribute.String("result", string(result))))
}

func (m *Metrics) IncSnapshotCache(hit bool) {
	m.SnapshotCache.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool("hit", hit)))
}

func (m *Metrics) ObserveRun(d time.Duration, result metrics.ResultLabel) {
	m.RunDuration.Record(context.Background(), d.Seconds(),
		metric.WithAttributes(attribute.String("result", string(result))))
}

func (m *Metrics) ObserveTask(agent string, d time.Duration, result metrics.ResultLabel) {
	m.TaskDuration.Record(context.Background(), d.Seconds(),
		metric.WithAttributes(
			attribute.String("agent", agent),
			attribute.String("result", string(result)),
		))
}

func (m *Metrics) SetListeners(n int) {
	m.Listeners.Record(context.Background(), int64(n))
}
