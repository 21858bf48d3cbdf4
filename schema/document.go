package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getditto-shared/ditto-cot/detail"
	"github.com/getditto-shared/ditto-cot/parser"
	"github.com/getditto-shared/ditto-cot/types"
)

// Document is one replicated-store document: a flat map of
// independently mergeable fields. Values are plain JSON-shaped Go
// values; numeric envelope fields use json.Number so their original
// rendering is preserved, and the detail field holds a
// types.DetailFieldMap (or, after a store round-trip, the equivalent
// map[string]any).
type Document map[string]any

// FromEvent converts an event to its document form, encoding the
// detail section under FieldDetail with docID-scoped stable keys.
func FromEvent(event *parser.Event, docID string) (Document, error) {
	if event == nil {
		return nil, fmt.Errorf("cannot convert nil event")
	}
	if docID == "" {
		return nil, fmt.Errorf("document id must not be empty")
	}

	doc := Document{
		FieldID:        docID,
		FieldDocType:   Classify(event.Type).String(),
		FieldType:      event.Type,
		FieldAuthorUID: event.UID,
		FieldVersion:   orDefault(event.Version, "2.0"),
	}

	for _, ts := range []struct {
		field string
		value string
	}{
		{FieldTimeMillis, event.Time},
		{FieldStartMillis, event.Start},
		{FieldStaleMillis, event.Stale},
	} {
		if ts.value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, ts.value)
		if err != nil {
			return nil, fmt.Errorf("bad event timestamp %q: %w", ts.value, err)
		}
		doc[ts.field] = t.UnixMilli()
	}

	for _, coord := range []struct {
		field string
		value string
	}{
		{FieldLat, event.Point.Lat},
		{FieldLon, event.Point.Lon},
		{FieldHae, event.Point.Hae},
		{FieldCe, event.Point.Ce},
		{FieldLe, event.Point.Le},
	} {
		if coord.value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(coord.value, 64); err != nil {
			return nil, fmt.Errorf("bad point coordinate %q: %w", coord.value, err)
		}
		// json.Number keeps the attribute text verbatim through
		// serialization, so precision never degrades in the store.
		doc[coord.field] = json.Number(coord.value)
	}

	setIfPresent(doc, FieldHow, event.How)
	setIfPresent(doc, FieldAccess, event.Access)
	setIfPresent(doc, FieldQos, event.Qos)
	setIfPresent(doc, FieldOpex, event.Opex)
	setIfPresent(doc, FieldCallsign, event.Callsign())

	fields, err := detail.Encode(event.Detail, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode detail section: %w", err)
	}
	doc[FieldDetail] = fields

	return doc, nil
}

// ToEvent converts a document back to an event. The detail field map is
// decoded through the detail package, so repeated elements come back in
// occurrence order.
func ToEvent(doc Document) (*parser.Event, error) {
	if doc == nil {
		return nil, fmt.Errorf("cannot convert nil document")
	}
	uid := stringField(doc, FieldAuthorUID)
	if uid == "" {
		// Pre-flattening documents without an author field fall back
		// to the document id.
		uid = stringField(doc, FieldID)
	}
	if uid == "" {
		return nil, fmt.Errorf("document has neither %s nor %s", FieldAuthorUID, FieldID)
	}
	cotType := stringField(doc, FieldType)
	if cotType == "" {
		return nil, fmt.Errorf("document is missing the %s (type) field", FieldType)
	}

	event := &parser.Event{
		Version: orDefault(stringField(doc, FieldVersion), "2.0"),
		UID:     uid,
		Type:    cotType,
		How:     stringField(doc, FieldHow),
		Access:  stringField(doc, FieldAccess),
		Qos:     stringField(doc, FieldQos),
		Opex:    stringField(doc, FieldOpex),
		Point: parser.Point{
			Lat: numberField(doc, FieldLat, "0.0"),
			Lon: numberField(doc, FieldLon, "0.0"),
			Hae: numberField(doc, FieldHae, "0.0"),
			Ce:  numberField(doc, FieldCe, "9999999.0"),
			Le:  numberField(doc, FieldLe, "9999999.0"),
		},
	}

	for _, ts := range []struct {
		field string
		dst   *string
	}{
		{FieldTimeMillis, &event.Time},
		{FieldStartMillis, &event.Start},
		{FieldStaleMillis, &event.Stale},
	} {
		if millis, ok := int64Field(doc, ts.field); ok {
			*ts.dst = parser.FormatTime(time.UnixMilli(millis))
		}
	}

	fields, err := DetailMap(doc)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		event.Detail = detail.Decode(fields)
	}
	return event, nil
}

// DetailMap returns the document's detail field map, converting from
// the plain-map form a store round-trip produces when necessary. An
// absent detail field yields an empty map.
func DetailMap(doc Document) (types.DetailFieldMap, error) {
	raw, ok := doc[FieldDetail]
	if !ok || raw == nil {
		return types.DetailFieldMap{}, nil
	}
	switch t := raw.(type) {
	case types.DetailFieldMap:
		return t, nil
	case map[string]types.FieldValue:
		return types.DetailFieldMap(t), nil
	case map[string]any:
		out := make(types.DetailFieldMap, len(t))
		for k, v := range t {
			fv, ok := types.FromNative(v)
			if !ok {
				return nil, fmt.Errorf("detail entry %q has unsupported value type %T", k, v)
			}
			out[k] = fv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("detail field has unsupported type %T", raw)
	}
}

// FlattenDetail returns a copy of the document with the detail map
// lifted into top-level "r_*" fields. Flattened documents are what a
// field-granular store should hold, since each detail entry then merges
// (and travels) independently.
func FlattenDetail(doc Document) (Document, error) {
	fields, err := DetailMap(doc)
	if err != nil {
		return nil, err
	}
	out := make(Document, len(doc)+len(fields))
	for k, v := range doc {
		if k == FieldDetail {
			continue
		}
		out[k] = v
	}
	for k, v := range fields {
		out[detailPrefix+k] = v
	}
	return out, nil
}

// UnflattenDetail is the inverse of FlattenDetail: it collects "r_*"
// fields back into a detail map under FieldDetail.
func UnflattenDetail(doc Document) (Document, error) {
	out := make(Document, len(doc))
	fields := make(map[string]any)
	for k, v := range doc {
		if strings.HasPrefix(k, detailPrefix) {
			fields[strings.TrimPrefix(k, detailPrefix)] = v
			continue
		}
		out[k] = v
	}
	converted, err := DetailMap(Document{FieldDetail: fields})
	if err != nil {
		return nil, err
	}
	out[FieldDetail] = converted
	return out, nil
}

// ID returns the document identifier field.
func (d Document) ID() string {
	return stringField(d, FieldID)
}

// Type returns the document's CoT type string.
func (d Document) Type() string {
	return stringField(d, FieldType)
}

// DocType returns the shape recorded at conversion time, re-classifying
// from the type string when the field is absent.
func (d Document) DocType() DocType {
	if t := stringField(d, FieldDocType); t != "" {
		return DocType(t)
	}
	return Classify(d.Type())
}

func setIfPresent(doc Document, field, value string) {
	if value != "" {
		doc[field] = value
	}
}

func stringField(doc Document, field string) string {
	s, _ := doc[field].(string)
	return s
}

// numberField renders a numeric field back to its attribute string,
// preferring the verbatim json.Number text.
func numberField(doc Document, field, def string) string {
	switch t := doc[field].(type) {
	case json.Number:
		return t.String()
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return def
	}
}

func int64Field(doc Document, field string) (int64, bool) {
	switch t := doc[field].(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
