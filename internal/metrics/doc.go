// Package metrics provides the observability hooks for snapshot extraction,
// documentation runs, engine tasks, and push listeners.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	svc := service.NewExtractorService(src, nil)
//	svc.SetRecorder(metrics.NewPrometheusRecorder(reg))
//
// Multi fans out to several recorders, which is how the server feeds both
// the Prometheus registry and the OpenTelemetry meter.
package metrics
