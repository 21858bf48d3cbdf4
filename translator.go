package cot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	mnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tnoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/getditto-shared/ditto-cot/detail"
	"github.com/getditto-shared/ditto-cot/parser"
	"github.com/getditto-shared/ditto-cot/schema"
	"github.com/getditto-shared/ditto-cot/types"
)

const instrumentationName = "github.com/getditto-shared/ditto-cot"

// Translator converts between CoT events and replicated-store
// documents. It is stateless apart from its configuration and safe for
// concurrent use.
type Translator struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	encoded metric.Int64Counter
	docID   func(*parser.Event) string
}

// New creates a Translator.
func New(opts ...Option) (*Translator, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = tnoop.NewTracerProvider().Tracer(instrumentationName)
	}
	if cfg.meter == nil {
		cfg.meter = mnoop.NewMeterProvider().Meter(instrumentationName)
	}
	if cfg.docID == nil {
		cfg.docID = DefaultDocumentID
	}

	encoded, err := cfg.meter.Int64Counter("cot.detail.entries_encoded",
		metric.WithDescription("Number of detail entries encoded into document fields"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encode counter: %w", err)
	}

	return &Translator{
		logger:  cfg.logger,
		tracer:  cfg.tracer,
		encoded: encoded,
		docID:   cfg.docID,
	}, nil
}

// DefaultDocumentID derives a document id from the event UID, minting
// a random UUID when the event has none. Events sharing a UID map to
// the same document, which is what makes their stable keys agree
// across updates.
func DefaultDocumentID(event *parser.Event) string {
	if event != nil && event.UID != "" {
		return event.UID
	}
	return uuid.NewString()
}

// ToDocument converts an event into its document form. The document id
// comes from the configured derivation (the event UID by default), and
// the detail section is encoded with document-scoped stable keys.
func (t *Translator) ToDocument(ctx context.Context, event *parser.Event) (schema.Document, error) {
	if event == nil {
		return nil, ErrNilEvent
	}

	docID := t.docID(event)
	if docID == "" {
		return nil, ErrEmptyDocumentID
	}
	ctx, span := t.tracer.Start(ctx, "cot.to_document", trace.WithAttributes(
		attribute.String("cot.uid", event.UID),
		attribute.String("cot.type", event.Type),
	))
	defer span.End()

	doc, err := schema.FromEvent(event, docID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if fields, err := schema.DetailMap(doc); err == nil {
		t.encoded.Add(ctx, int64(len(fields)), metric.WithAttributes(
			attribute.String("cot.doc_type", doc.DocType().String()),
		))
		span.SetAttributes(attribute.Int("cot.detail_entries", len(fields)))
	}
	return doc, nil
}

// FromDocument converts a document back into an event. Detail entries
// whose metadata did not survive sync are skipped with a log line
// rather than failing the conversion.
func (t *Translator) FromDocument(ctx context.Context, doc schema.Document) (*parser.Event, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	_, span := t.tracer.Start(ctx, "cot.from_document", trace.WithAttributes(
		attribute.String("cot.doc_id", doc.ID()),
	))
	defer span.End()

	fields, err := schema.DetailMap(doc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	event, err := toEventWithLogger(doc, fields, t.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return event, nil
}

// toEventWithLogger mirrors schema.ToEvent but routes decode skips to
// the translator's logger.
func toEventWithLogger(doc schema.Document, fields types.DetailFieldMap, logger *slog.Logger) (*parser.Event, error) {
	stripped := make(schema.Document, len(doc))
	for k, v := range doc {
		if k == schema.FieldDetail {
			continue
		}
		stripped[k] = v
	}
	event, err := schema.ToEvent(stripped)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		event.Detail = detail.DecodeWithLogger(fields, logger)
	}
	return event, nil
}

// Convert parses CoT XML straight through to a document.
func (t *Translator) Convert(ctx context.Context, xmlBytes []byte) (schema.Document, error) {
	event, err := parser.Parse(xmlBytes)
	if err != nil {
		return nil, err
	}
	return t.ToDocument(ctx, event)
}

// Render converts a document straight through to CoT XML.
func (t *Translator) Render(ctx context.Context, doc schema.Document) ([]byte, error) {
	event, err := t.FromDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	return event.Marshal()
}

// AppendDetail encodes one new element into the document's detail
// field map, allocating the next free occurrence index from existing
// metadata instead of re-encoding a source tree. The document is
// modified in place.
func (t *Translator) AppendDetail(doc schema.Document, node *types.ElementNode) (string, error) {
	if doc == nil {
		return "", ErrNilDocument
	}
	if node == nil {
		return "", fmt.Errorf("cannot append nil element")
	}
	docID := doc.ID()
	if docID == "" {
		return "", ErrEmptyDocumentID
	}

	fields, err := schema.DetailMap(doc)
	if err != nil {
		return "", err
	}
	key, err := detail.AppendEntry(fields, node, docID)
	if err != nil {
		return "", err
	}
	doc[schema.FieldDetail] = fields
	return key, nil
}
