package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "docucrew"

// StartExtractSpan starts a span for a repository snapshot extraction.
func StartExtractSpan(ctx context.Context, owner, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "extract",
		trace.WithAttributes(
			attribute.String("repo.owner", owner),
			attribute.String("repo.name", name),
		),
	)
}

// StartRunSpan starts a span for a documentation run.
func StartRunSpan(ctx context.Context, runID, repo string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("repo.full_name", repo),
		),
	)
}

// StartTaskSpan starts a span for one engine task within a batch.
func StartTaskSpan(ctx context.Context, agent string, index int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "task",
		trace.WithAttributes(
			attribute.String("task.agent", agent),
			attribute.Int("task.index", index),
		),
	)
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
