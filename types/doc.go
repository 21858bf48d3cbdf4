// Package types provides the shared data model for CoT detail translation.
//
// This package defines the two structures every other package in the SDK
// speaks: the generic XML element tree produced by the parser, and the
// closed tagged value variant stored in a replicated document's field map.
//
// # Element Trees
//
// ElementNode is the parser-facing view of a CoT detail section: a tag
// name, ordered attributes, ordered children, and optional text. Trees are
// built once and treated as immutable afterwards:
//
//	sensor := &types.ElementNode{
//	    Tag:   "sensor",
//	    Attrs: []types.Attr{{Name: "type", Value: "optical"}},
//	}
//
// # Field Values
//
// FieldValue is a closed variant over the four shapes a replicated
// document field can take: string, number, boolean, and nested map. The
// variant is deliberately closed rather than an open `any` so that every
// consumer handles exactly four cases and nothing else:
//
//	v := types.StringValue("optical")
//	if s, ok := v.AsString(); ok {
//	    // ...
//	}
//
// Numbers carry their original string rendering alongside the parsed
// float, so numeric and timestamp text survives a store round-trip
// byte-for-byte.
//
// # Detail Field Maps
//
// DetailFieldMap is the encoder's output: a flat map from stable field
// keys to Map-variant FieldValues. The reserved metadata keys (KeyTag,
// KeyDocID, KeyElementIndex, KeyText) carry enough information to rebuild
// the original tree; see the detail package for the encoding scheme.
package types
