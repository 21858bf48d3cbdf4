package cot

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/getditto-shared/ditto-cot/parser"
)

// Option configures a Translator.
type Option func(*config)

type config struct {
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	docID  func(*parser.Event) string
}

// WithLogger sets the structured logger used for non-fatal translation
// events, such as skipped detail entries during decode. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer enables tracing of conversions with the given tracer.
// Without it, tracing is a no-op.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithMeter enables conversion metrics on the given meter. Without it,
// metrics are a no-op.
func WithMeter(meter metric.Meter) Option {
	return func(c *config) {
		c.meter = meter
	}
}

// WithDocumentID sets the function deriving a document id from an
// event. The default uses the event UID, falling back to a random UUID
// for events without one. Stable keys are only stable for a fixed
// document id, so the function must be deterministic for any event
// that will round-trip.
func WithDocumentID(fn func(*parser.Event) string) Option {
	return func(c *config) {
		c.docID = fn
	}
}
