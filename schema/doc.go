// Package schema maps CoT events onto replicated-store documents.
//
// The store schema is a small closed set of document shapes (map item,
// chat message, file reference, api/emergency event, and a generic
// fallback), selected by matching the event's type string against fixed
// prefixes and substrings:
//
//	docType := schema.Classify("a-f-G-U-C") // DocTypeMapItem
//
// Envelope attributes map onto short fixed field names (see the Field
// constants); the detail section is encoded by the detail package and
// stored under FieldDetail. Numeric envelope values are carried as
// json.Number so the original text survives serialization unchanged.
//
// FlattenDetail and UnflattenDetail lift the detail entries to
// top-level "r_*" document fields and back. Flattened form is what a
// field-granular store should sync, since it lets each detail entry
// merge independently instead of shipping the whole detail map on every
// edit.
package schema
