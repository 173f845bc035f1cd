package nanoblocks

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/chestozo/nanoblocks"

// metrics holds the registry's OpenTelemetry instruments.
type metrics struct {
	events   metric.Int64Counter
	handlers metric.Int64Counter
	stops    metric.Int64Counter
	created  metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) *metrics {
	meter := mp.Meter(meterName)

	// Instrument creation only fails on invalid names; the returned
	// instrument is a usable no-op in that case.
	events, _ := meter.Int64Counter("nanoblocks.dispatch.events",
		metric.WithDescription("Number of DOM events delivered to the dispatcher"),
		metric.WithUnit("{event}"),
	)
	handlers, _ := meter.Int64Counter("nanoblocks.dispatch.handlers",
		metric.WithDescription("Number of DOM handlers invoked"),
		metric.WithUnit("{call}"),
	)
	stops, _ := meter.Int64Counter("nanoblocks.dispatch.stops",
		metric.WithDescription("Number of handler chains or dispatches stopped by a handler"),
		metric.WithUnit("{stop}"),
	)
	created, _ := meter.Int64Counter("nanoblocks.blocks.created",
		metric.WithDescription("Number of block instances created"),
		metric.WithUnit("{block}"),
	)

	return &metrics{
		events:   events,
		handlers: handlers,
		stops:    stops,
		created:  created,
	}
}

func (m *metrics) event(typ string) {
	m.events.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("event", typ)))
}

func (m *metrics) handler(typ string) {
	m.handlers.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("event", typ)))
}

func (m *metrics) stop(typ string, kind Result) {
	m.stops.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("event", typ),
			attribute.String("kind", kind.String()),
		))
}
