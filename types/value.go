package types

import (
	"sort"
	"strconv"
)

// Reserved metadata keys inside an encoded detail entry. Tag names that
// collide with these keys (or that begin with an underscore generally)
// are a documented caller constraint; the encoder does not police them.
const (
	// KeyTag holds the original element name of an encoded entry.
	KeyTag = "_tag"

	// KeyDocID holds the identifier of the owning document.
	KeyDocID = "_docId"

	// KeyElementIndex holds the zero-based occurrence index of the
	// element among same-tag siblings at its nesting position.
	KeyElementIndex = "_elementIndex"

	// KeyText holds the element's character data, present only when the
	// element had non-empty text and no element children.
	KeyText = "_text"
)

// Kind identifies which variant a FieldValue holds.
type Kind int

// The four shapes a replicated document field can take. The set is
// closed: consumers switch over exactly these and nothing else.
const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindMap
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// FieldValue is a closed tagged variant over the value shapes a
// replicated document field can hold. The zero value is the empty
// string variant.
//
// Number values keep the original string rendering next to the parsed
// float. Formatting a number back therefore returns exactly the text
// that produced it, which keeps high-precision coordinates and
// timestamps lossless across a store round-trip.
type FieldValue struct {
	kind Kind
	str  string
	num  float64
	raw  string
	b    bool
	m    map[string]FieldValue
}

// StringValue returns the string variant of v.
func StringValue(v string) FieldValue {
	return FieldValue{kind: KindString, str: v}
}

// NumberValue returns the number variant of v, rendered with the
// shortest round-trippable formatting.
func NumberValue(v float64) FieldValue {
	return FieldValue{kind: KindNumber, num: v, raw: strconv.FormatFloat(v, 'g', -1, 64)}
}

// IntValue returns the number variant of an integer.
func IntValue(v int) FieldValue {
	return FieldValue{kind: KindNumber, num: float64(v), raw: strconv.Itoa(v)}
}

// NumberFromString returns the number variant parsed from raw, keeping
// raw as the canonical rendering. Returns the string variant unchanged
// when raw does not parse as a number.
func NumberFromString(raw string) FieldValue {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return StringValue(raw)
	}
	return FieldValue{kind: KindNumber, num: f, raw: raw}
}

// BoolValue returns the boolean variant of v.
func BoolValue(v bool) FieldValue {
	return FieldValue{kind: KindBoolean, b: v}
}

// MapValue returns the map variant wrapping m. The map is shared, not
// copied; callers hand over ownership.
func MapValue(m map[string]FieldValue) FieldValue {
	if m == nil {
		m = make(map[string]FieldValue)
	}
	return FieldValue{kind: KindMap, m: m}
}

// Kind returns the variant held by the value.
func (v FieldValue) Kind() Kind {
	return v.kind
}

// AsString returns the string variant's value.
func (v FieldValue) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the number variant's parsed value.
func (v FieldValue) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsInt returns the number variant truncated to an int.
func (v FieldValue) AsInt() (int, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return int(v.num), true
}

// AsBool returns the boolean variant's value.
func (v FieldValue) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsMap returns the map variant's underlying map. The map is shared;
// callers must not mutate entries of values they do not own.
func (v FieldValue) AsMap() (map[string]FieldValue, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Raw returns the value rendered as a string: the original rendering
// for numbers, "true"/"false" for booleans, the string itself for
// strings, and "" for maps.
func (v FieldValue) Raw() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.raw
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports deep equality between two values. Numbers compare by
// their canonical rendering, so 1.0 and "1.0" parsed back are equal but
// 1.0 and 1.00 are not; renderings are part of the value.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.raw == other.raw
	case KindBoolean:
		return v.b == other.b
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, val := range v.m {
			o, ok := other.m[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// DetailFieldMap is the flat field map a detail section encodes into.
// Keys are bare tag names for singleton tags and digest-derived stable
// keys for repeated tags; every value is the map variant carrying the
// reserved metadata keys.
type DetailFieldMap map[string]FieldValue

// Keys returns the map's keys in sorted order. Handy for deterministic
// iteration in tests and serialization.
func (m DetailFieldMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two maps hold the same keys with equal values.
func (m DetailFieldMap) Equal(other DetailFieldMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// EntryMeta extracts the reserved metadata of an encoded entry. ok is
// false when the value is not a map variant or lacks a string KeyTag;
// such entries cannot be decoded.
func EntryMeta(v FieldValue) (tag, docID string, index int, ok bool) {
	m, isMap := v.AsMap()
	if !isMap {
		return "", "", 0, false
	}
	tag, ok = m[KeyTag].AsString()
	if !ok || tag == "" {
		return "", "", 0, false
	}
	docID, _ = m[KeyDocID].AsString()
	index, _ = m[KeyElementIndex].AsInt()
	return tag, docID, index, true
}
