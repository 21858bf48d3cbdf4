// Package parser reads and writes Cursor-on-Target (CoT) event XML.
//
// A CoT event is a fixed envelope (uid, type, three timestamps, and a
// point) around a freeform detail section. The envelope maps onto the
// Event struct; the detail section is kept as a generic element tree
// (types.ElementNode) because its content is schema-less and may repeat
// tags, which struct-tag unmarshaling cannot represent.
//
//	event, err := parser.Parse(xmlBytes)
//	if err != nil { ... }
//	fmt.Println(event.UID, event.Type)
//
//	out, err := event.Marshal()
//
// Timestamps and point coordinates are kept as the verbatim strings
// from the document, so marshaling an unmodified event reproduces the
// original precision exactly. Parsed accessors are provided where a
// typed view is needed.
package parser
