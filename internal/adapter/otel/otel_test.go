package otel_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	dcotel "github.com/Strob0t/DocuCrew/internal/adapter/otel"
	"github.com/Strob0t/DocuCrew/internal/metrics"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := dcotel.Setup(context.Background(), dcotel.Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSpansRecordErrors(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, run := dcotel.StartRunSpan(context.Background(), "run-1", "acme/widgets")
	_, task := dcotel.StartTaskSpan(ctx, "editor", 4)
	dcotel.EndSpan(task, errors.New("proxy down"))
	dcotel.EndSpan(run, nil)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(spans))
	}
	if spans[0].Name() != "task" || spans[0].Status().Code != codes.Error {
		t.Errorf("expected failed task span, got %s %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Name() != "run" || spans[1].Status().Code == codes.Error {
		t.Errorf("expected healthy run span, got %s %v", spans[1].Name(), spans[1].Status())
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("task span must be a child of the run span")
	}
}

func TestMetricsRecorder(t *testing.T) {
	m, err := dcotel.NewMetrics()
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	var r metrics.Recorder = m
	r.ObserveExtraction(time.Second, metrics.ResultSuccess)
	r.IncSnapshotCache(true)
	r.ObserveRun(time.Second, metrics.ResultFailed)
	r.ObserveTask("editor", time.Second, metrics.ResultSuccess)
	r.SetListeners(1)
}

func TestHTTPMiddleware(t *testing.T) {
	h := dcotel.HTTPMiddleware("docucrew")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}
