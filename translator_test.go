package cot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/getditto-shared/ditto-cot/parser"
	"github.com/getditto-shared/ditto-cot/schema"
	"github.com/getditto-shared/ditto-cot/store"
	"github.com/getditto-shared/ditto-cot/types"
)

const sampleXML = `<event version="2.0" uid="ALPHA-1" type="a-f-G-U-C" time="2024-03-15T10:30:00.000Z" start="2024-03-15T10:30:00.000Z" stale="2024-03-15T10:35:00.000Z" how="m-g">
  <point lat="37.7749295000001" lon="-122.4194155000002" hae="12.5" ce="10.0" le="25.0"/>
  <detail>
    <contact callsign="ALPHA-1"/>
    <sensor type="optical"/>
    <sensor type="thermal"/>
    <status readiness="true"/>
  </detail>
</event>`

func newTranslator(t *testing.T, opts ...Option) *Translator {
	t.Helper()
	tr, err := New(opts...)
	require.NoError(t, err)
	return tr
}

func TestToDocument(t *testing.T) {
	ctx := context.Background()
	tr := newTranslator(t)

	event, err := parser.Parse([]byte(sampleXML))
	require.NoError(t, err)

	doc, err := tr.ToDocument(ctx, event)
	require.NoError(t, err)

	assert.Equal(t, "ALPHA-1", doc.ID(), "document id defaults to the event UID")
	assert.Equal(t, schema.DocTypeMapItem, doc.DocType())

	fields, err := schema.DetailMap(doc)
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Contains(t, fields, "contact")
	assert.Contains(t, fields, "status")

	t.Run("nil event", func(t *testing.T) {
		_, err := tr.ToDocument(ctx, nil)
		require.ErrorIs(t, err, ErrNilEvent)
	})

	t.Run("custom document id", func(t *testing.T) {
		custom := newTranslator(t, WithDocumentID(func(*parser.Event) string { return "fixed-id" }))
		doc, err := custom.ToDocument(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", doc.ID())
	})

	t.Run("empty document id rejected", func(t *testing.T) {
		broken := newTranslator(t, WithDocumentID(func(*parser.Event) string { return "" }))
		_, err := broken.ToDocument(ctx, event)
		require.ErrorIs(t, err, ErrEmptyDocumentID)
	})

	t.Run("event without uid gets a generated id", func(t *testing.T) {
		anon := &parser.Event{
			Type:  "a-f-G",
			Time:  event.Time,
			Start: event.Start,
			Stale: event.Stale,
		}
		doc, err := tr.ToDocument(ctx, anon)
		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID())
	})
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr := newTranslator(t)

	doc, err := tr.Convert(ctx, []byte(sampleXML))
	require.NoError(t, err)

	out, err := tr.Render(ctx, doc)
	require.NoError(t, err)

	back, err := parser.Parse(out)
	require.NoError(t, err)

	original, err := parser.Parse([]byte(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, original.UID, back.UID)
	assert.Equal(t, original.Point, back.Point)
	assert.True(t, back.Detail.EquivalentTo(original.Detail),
		"round trip through document form must preserve the detail tree")
}

func TestAppendDetail(t *testing.T) {
	ctx := context.Background()
	tr := newTranslator(t)

	doc, err := tr.Convert(ctx, []byte(sampleXML))
	require.NoError(t, err)

	node := &types.ElementNode{Tag: "sensor"}
	node.SetAttr("type", "acoustic")

	key, err := tr.AppendDetail(doc, node)
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	event, err := tr.FromDocument(ctx, doc)
	require.NoError(t, err)
	sensors := event.Detail.ChildrenByTag("sensor")
	require.Len(t, sensors, 3)
	last, _ := sensors[2].Attr("type")
	assert.Equal(t, "acoustic", last, "appended sensor must decode in index order")

	t.Run("nil inputs", func(t *testing.T) {
		_, err := tr.AppendDetail(nil, node)
		require.ErrorIs(t, err, ErrNilDocument)
		_, err = tr.AppendDetail(doc, nil)
		require.Error(t, err)
	})
}

func TestTranslatorThroughStore(t *testing.T) {
	ctx := context.Background()
	tr := newTranslator(t)
	st := store.NewMemory()
	defer st.Close()

	doc, err := tr.Convert(ctx, []byte(sampleXML))
	require.NoError(t, err)

	collection := doc.DocType().Collection()
	require.NoError(t, st.Upsert(ctx, collection, doc))

	stored, err := st.Get(ctx, collection, doc.ID())
	require.NoError(t, err)

	// The stored document arrives in JSON-native form; conversion back
	// must still reconstruct the full event.
	event, err := tr.FromDocument(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "ALPHA-1", event.UID)
	assert.Len(t, event.Detail.ChildrenByTag("sensor"), 2)
	assert.Equal(t, "37.7749295000001", event.Point.Lat, "precision must survive the store")
}

func TestTracing(t *testing.T) {
	ctx := context.Background()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := newTranslator(t, WithTracer(provider.Tracer("test")))

	doc, err := tr.Convert(ctx, []byte(sampleXML))
	require.NoError(t, err)
	_, err = tr.FromDocument(ctx, doc)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "cot.to_document", spans[0].Name())
	assert.Equal(t, "cot.from_document", spans[1].Name())
}
