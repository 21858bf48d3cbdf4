package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getditto-shared/ditto-cot/schema"
)

// Sentinel errors for store operations, checkable with errors.Is.
var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrMissingID indicates a document without an _id field was
	// offered for storage.
	ErrMissingID = errors.New("document is missing its id field")
)

// Store is the interface the conversion pipeline writes to and reads
// from. Implementations must make Upsert field-granular: only fields
// whose values differ from the stored document may be written.
type Store interface {
	// Upsert writes doc into the collection, creating it if absent and
	// otherwise updating only the changed fields.
	Upsert(ctx context.Context, collection string, doc schema.Document) error

	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (schema.Document, error)

	// Remove deletes the document with the given id. Removing an
	// absent document is not an error.
	Remove(ctx context.Context, collection, id string) error

	// List returns every document in the collection, in unspecified
	// order.
	List(ctx context.Context, collection string) ([]schema.Document, error)

	// Find returns the collection's documents matching a CEL filter
	// expression; see Query.
	Find(ctx context.Context, collection, expr string) ([]schema.Document, error)

	// Close releases the adapter's resources.
	Close() error
}

// Changed diffs two documents field by field. It returns the fields of
// next that are new or differ from prev, and the names of prev's fields
// that next no longer has. Values compare by their canonical JSON
// rendering, which makes the diff independent of whether a value is in
// typed or store-native form.
func Changed(prev, next schema.Document) (changed schema.Document, removed []string, err error) {
	changed = schema.Document{}
	for k, v := range next {
		old, ok := prev[k]
		if !ok {
			changed[k] = v
			continue
		}
		same, cmpErr := jsonEqual(old, v)
		if cmpErr != nil {
			return nil, nil, cmpErr
		}
		if !same {
			changed[k] = v
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			removed = append(removed, k)
		}
	}
	return changed, removed, nil
}

func jsonEqual(a, b any) (bool, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("failed to compare field values: %w", err)
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("failed to compare field values: %w", err)
	}
	return bytes.Equal(ab, bb), nil
}

// normalize round-trips a document through JSON so every adapter stores
// the same shapes: json.Number for numbers, map[string]any for nested
// maps. This also deep-copies, so callers keep ownership of their
// input.
func normalize(doc schema.Document) (schema.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out schema.Document
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to deserialize document: %w", err)
	}
	return out, nil
}
