package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/milk9111/charfsm/fsm"
)

// TraceTransitions records one span per committed transition of m. The span
// covers the listener call only; its attributes carry the transition.
func TraceTransitions(m *fsm.Machine, tracer trace.Tracer, character string) {
	if m == nil || tracer == nil {
		return
	}
	m.OnStateChanged(func(from, to fsm.State) {
		_, span := tracer.Start(context.Background(), "fsm.transition")
		attrs := []attribute.KeyValue{
			attribute.String("character", character),
			attribute.String("fsm.from", from.String()),
			attribute.String("fsm.to", to.String()),
		}
		if last, ok := m.LastTransition(); ok {
			attrs = append(attrs, attribute.String("fsm.rule", last.Label))
		}
		span.SetAttributes(attrs...)
		span.End()
	})
}
