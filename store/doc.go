// Package store defines the document-store collaborator the translator
// hands its documents to, plus local adapters for development and
// tests.
//
// The translation core never merges or transports anything; it only
// needs a place that accepts field maps and, crucially, accepts them
// field by field. The Store interface pins that contract: Upsert must
// write only the fields that changed, which is the entire point of the
// stable detail keys: an edit to one repeated element travels as one
// field, not as a whole-section rewrite.
//
// Two adapters are provided. Memory is a mutex-guarded in-process map
// for tests and examples. Redis keeps one hash per document with
// JSON-encoded field values, so field-level writes map directly onto
// HSET of the dirty fields.
//
// Find filters a collection with a CEL expression evaluated against
// each document bound as `doc`:
//
//	docs, err := st.Find(ctx, "map_item", `doc.w.startsWith("a-f")`)
//
// Replication, merge policy beyond per-field overwrite, and
// authentication belong to the real replicated store and are
// deliberately absent here.
package store
