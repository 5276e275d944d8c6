package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docucrew"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	extractDuration *prom.HistogramVec
	snapshotCache   *prom.CounterVec
	runDuration     *prom.HistogramVec
	taskDuration    *prom.HistogramVec
	listeners       prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		extractDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Duration of repository snapshot extraction",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		snapshotCache: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_lookups_total",
			Help:      "Snapshot cache lookups by outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of documentation runs",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"result"}),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of individual engine tasks",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}, []string{"agent", "result"}),
		listeners: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_listeners",
			Help:      "Connected progress listeners",
		}),
	}
	reg.MustRegister(pr.extractDuration, pr.snapshotCache, pr.runDuration, pr.taskDuration, pr.listeners)
	return pr
}

func (p *PrometheusRecorder) ObserveExtraction(d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.extractDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSnapshotCache(hit bool) {
	if p == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	p.snapshotCache.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveRun(d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.runDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveTask(agent string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.taskDuration.WithLabelValues(agent, string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetListeners(n int) {
	if p == nil {
		return
	}
	p.listeners.Set(float64(n))
}
