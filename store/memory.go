package store

import (
	"context"
	"sync"

	"github.com/getditto-shared/ditto-cot/schema"
)

// Memory is an in-process Store for tests and examples. Documents are
// stored in normalized (JSON-shaped) form, so behavior matches the
// Redis adapter exactly.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]schema.Document
	query       *Query
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]schema.Document),
		query:       NewQuery(),
	}
}

// Upsert implements Store. Only changed fields are written into the
// stored document; untouched fields keep their existing values.
func (s *Memory) Upsert(ctx context.Context, collection string, doc schema.Document) error {
	id := doc.ID()
	if id == "" {
		return ErrMissingID
	}
	next, err := normalize(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]schema.Document)
		s.collections[collection] = coll
	}

	prev, exists := coll[id]
	if !exists {
		coll[id] = next
		return nil
	}

	changed, removed, err := Changed(prev, next)
	if err != nil {
		return err
	}
	for k, v := range changed {
		prev[k] = v
	}
	for _, k := range removed {
		delete(prev, k)
	}
	return nil
}

// Get implements Store.
func (s *Memory) Get(ctx context.Context, collection, id string) (schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy out so callers cannot mutate the stored document.
	return normalize(doc)
}

// Remove implements Store.
func (s *Memory) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

// List implements Store.
func (s *Memory) List(ctx context.Context, collection string) ([]schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	out := make([]schema.Document, 0, len(coll))
	for _, doc := range coll {
		copied, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}
	return out, nil
}

// Find implements Store.
func (s *Memory) Find(ctx context.Context, collection, expr string) ([]schema.Document, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return s.query.Filter(docs, expr)
}

// Close implements Store. It discards all collections.
func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = make(map[string]map[string]schema.Document)
	return nil
}
