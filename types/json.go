package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON renders the variant as its natural JSON shape. Numbers
// emit their original rendering verbatim when it is itself valid JSON,
// so encoding does not reformat high-precision values.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if json.Valid([]byte(v.raw)) {
			return []byte(v.raw), nil
		}
		return strconv.AppendFloat(nil, v.num, 'g', -1, 64), nil
	case KindBoolean:
		return json.Marshal(v.b)
	case KindMap:
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("unknown field value kind %d", v.kind)
	}
}

// UnmarshalJSON parses any JSON value into the matching variant.
// Numbers are decoded with json.Number so the textual rendering is
// preserved. JSON null and arrays have no variant and are rejected;
// neither occurs in an encoded detail map.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, ok := FromNative(raw)
	if !ok {
		return fmt.Errorf("unsupported JSON value %T for field value", raw)
	}
	*v = parsed
	return nil
}

// ToNative converts the variant to plain Go values: string, float64,
// bool, or map[string]any. Used when handing documents to consumers
// that speak `any`, such as the store adapters and query evaluation.
func (v FieldValue) ToNative() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, val := range v.m {
			out[k] = val.ToNative()
		}
		return out
	default:
		return nil
	}
}

// FromNative converts a plain Go value into the matching variant.
// json.Number inputs keep their textual rendering. Returns ok=false
// for values outside the closed variant set.
func FromNative(v any) (FieldValue, bool) {
	switch t := v.(type) {
	case string:
		return StringValue(t), true
	case bool:
		return BoolValue(t), true
	case float64:
		return NumberValue(t), true
	case int:
		return IntValue(t), true
	case int64:
		return FieldValue{kind: KindNumber, num: float64(t), raw: strconv.FormatInt(t, 10)}, true
	case json.Number:
		return NumberFromString(t.String()), true
	case map[string]FieldValue:
		return MapValue(t), true
	case map[string]any:
		m := make(map[string]FieldValue, len(t))
		for k, val := range t {
			fv, ok := FromNative(val)
			if !ok {
				return FieldValue{}, false
			}
			m[k] = fv
		}
		return MapValue(m), true
	case FieldValue:
		return t, true
	default:
		return FieldValue{}, false
	}
}
