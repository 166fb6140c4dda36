package attack

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gnolang/boolattack/internal/attack"

func defaultTracer() trace.Tracer { return otel.Tracer(tracerName) }

func (a *Attack) startRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return a.tracer.Start(ctx, "attack.Run",
		trace.WithAttributes(
			attribute.String("attack.run_id", runID),
			attribute.String("attack.strategy", a.strategy.Name()),
			attribute.Int("attack.max_iterations", a.maxIterations),
			attribute.Int("attack.expressions", a.fn.Len()),
		),
	)
}

func iterationEvent(span trace.Span, it Iteration) {
	span.AddEvent("attack.iteration", trace.WithAttributes(
		attribute.Int("attack.iteration", it.Number),
		attribute.Int("attack.depth", it.Depth),
		attribute.String("attack.input", it.Input.String()),
		attribute.Int("attack.free_inputs", it.Free),
		attribute.Int("attack.resolve_passes", it.Passes),
	))
}

func finishRunSpan(span trace.Span, res Result, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("attack.result", res.Kind.String()),
		attribute.Int("attack.iterations", res.Iterations),
		attribute.Int("attack.baseline_free_inputs", len(res.OriginalFreeInputs)),
	)
	span.SetStatus(codes.Ok, "")
}
