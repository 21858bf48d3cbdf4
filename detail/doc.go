// Package detail converts parsed CoT detail trees to and from flat,
// field-addressable maps suitable for a replicated document store.
//
// A detail section is an ordered list of freeform elements in which the
// same tag may appear many times. Replicated stores synchronize
// documents as maps of independently-merged fields, so a naive
// tag-keyed translation would collapse repeated tags into one field and
// lose every occurrence but the last. The encoder here instead gives
// each repeated element a stable, deterministic key derived from the
// owning document id (see the keys package) and records the original
// tag and occurrence index as metadata, so the decoder can rebuild the
// tree losslessly.
//
// # Encoding
//
//	fields, err := detail.Encode(tree, "doc-1")
//
// Tags occurring exactly once among the top-level children keep their
// bare name as the field key; repeated tags get "<digest>_<index>"
// keys. Only the top level receives stable keys, since that is the
// store's merge granularity boundary; nested children are keyed inside
// their parent's map by their own tag name.
//
// # Decoding
//
//	tree := detail.Decode(fields)
//
// Decoding groups entries by their recorded tag, orders each group by
// occurrence index, and rebuilds the tree. Entries missing their tag
// metadata are logged and skipped rather than failing the whole decode,
// so a partially-synced document still yields every entry that did
// arrive intact. Relative order between different tag names is not
// restored; the detail schema treats inter-tag order as insignificant.
//
// Both directions are pure, synchronous, and safe for concurrent use on
// inputs the caller owns.
package detail
