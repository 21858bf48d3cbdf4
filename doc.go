// Package cot translates Cursor-on-Target (CoT) events into
// field-addressable documents for a peer-to-peer replicated document
// store, and back, without losing repeated detail elements.
//
// A CoT event is fixed-envelope XML around a freeform detail section in
// which the same tag may appear many times (several <sensor> elements,
// say). A replicated store synchronizes documents as maps of
// independently mergeable fields, so a naive tag-keyed translation
// collapses repeated tags into one field and forces whole-section
// re-sync on every edit. This SDK gives every detail element a stable,
// deterministic, document-scoped field key and carries enough metadata
// to reconstruct the original structure losslessly.
//
// # Packages
//
//   - parser: CoT XML <-> event envelope + generic detail tree
//   - types: shared element tree and closed field value variant
//   - keys: deterministic stable key generation and index allocation
//   - detail: the detail encoder and decoder
//   - schema: document shapes, classification, outer field mapping
//   - store: the document-store collaborator interface with local adapters
//
// # Converting
//
//	translator, err := cot.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	event, err := parser.Parse(xmlBytes)
//	doc, err := translator.ToDocument(ctx, event)
//	// ... hand doc to a store ...
//	back, err := translator.FromDocument(ctx, doc)
//	xmlOut, err := back.Marshal()
//
// # Determinism
//
// Key generation is a pure function of (document id, tag, occurrence
// index): two independent processes given the same input produce
// byte-identical keys with no shared runtime state. The round-trip
// reconstructs every element at every nesting level; only the relative
// order of differently-named sibling tags is not preserved, which the
// detail schema declares insignificant.
//
// # Observability
//
// Structured logging uses log/slog. Tracing and metrics use
// OpenTelemetry and default to no-ops:
//
//	translator, err := cot.New(
//	    cot.WithLogger(logger),
//	    cot.WithTracer(otel.Tracer("cot")),
//	)
//
// # Thread Safety
//
// A Translator is safe for concurrent use; conversions are pure
// functions over inputs the caller owns. The one documented hazard is
// two replicas concurrently appending a duplicate element to copies of
// the same document, which can allocate the same occurrence index and
// leave the conflict to the store's per-field merge policy.
package cot
