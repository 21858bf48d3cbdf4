package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getditto-shared/ditto-cot/schema"
)

func testDoc(id string, extra map[string]any) schema.Document {
	doc := schema.Document{
		schema.FieldID:   id,
		schema.FieldType: "a-f-G-U-C",
		schema.FieldLat:  json.Number("37.77492"),
	}
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	defer s.Close()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "map_item", "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upsert and get", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, "map_item", testDoc("doc-1", nil)))

		got, err := s.Get(ctx, "map_item", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "doc-1", got.ID())
		assert.Equal(t, "a-f-G-U-C", got.Type())
	})

	t.Run("missing id rejected", func(t *testing.T) {
		err := s.Upsert(ctx, "map_item", schema.Document{schema.FieldType: "a-f"})
		require.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("update changes only differing fields", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, "map_item", testDoc("doc-2", map[string]any{"e": "VIPER-1"})))
		require.NoError(t, s.Upsert(ctx, "map_item", testDoc("doc-2", map[string]any{"e": "VIPER-2"})))

		got, err := s.Get(ctx, "map_item", "doc-2")
		require.NoError(t, err)
		assert.Equal(t, "VIPER-2", got[schema.FieldCallsign])
	})

	t.Run("dropped fields are removed", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, "map_item", testDoc("doc-3", map[string]any{"p": "m-g"})))
		require.NoError(t, s.Upsert(ctx, "map_item", testDoc("doc-3", nil)))

		got, err := s.Get(ctx, "map_item", "doc-3")
		require.NoError(t, err)
		_, ok := got[schema.FieldHow]
		assert.False(t, ok)
	})

	t.Run("list", func(t *testing.T) {
		docs, err := s.List(ctx, "map_item")
		require.NoError(t, err)
		assert.Len(t, docs, 3)

		empty, err := s.List(ctx, "chat")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "map_item", "doc-3"))
		_, err := s.Get(ctx, "map_item", "doc-3")
		require.ErrorIs(t, err, ErrNotFound)

		// removing again is not an error
		require.NoError(t, s.Remove(ctx, "map_item", "doc-3"))
	})

	t.Run("callers cannot mutate stored documents", func(t *testing.T) {
		got, err := s.Get(ctx, "map_item", "doc-1")
		require.NoError(t, err)
		got[schema.FieldType] = "tampered"

		again, err := s.Get(ctx, "map_item", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "a-f-G-U-C", again.Type())
	})
}

func TestChanged(t *testing.T) {
	t.Run("identical documents produce an empty diff", func(t *testing.T) {
		a := testDoc("doc-1", nil)
		b := testDoc("doc-1", nil)
		changed, removed, err := Changed(a, b)
		require.NoError(t, err)
		assert.Empty(t, changed)
		assert.Empty(t, removed)
	})

	t.Run("typed and native forms compare equal", func(t *testing.T) {
		// A document fresh from conversion and the same document read
		// back from a store differ in value types but not in content.
		fresh := testDoc("doc-1", nil)
		stored, err := normalize(fresh)
		require.NoError(t, err)

		changed, removed, err := Changed(stored, fresh)
		require.NoError(t, err)
		assert.Empty(t, changed)
		assert.Empty(t, removed)
	})

	t.Run("changed and removed fields reported", func(t *testing.T) {
		prev := testDoc("doc-1", map[string]any{"e": "VIPER-1", "p": "m-g"})
		next := testDoc("doc-1", map[string]any{"e": "VIPER-2"})

		changed, removed, err := Changed(prev, next)
		require.NoError(t, err)
		assert.Equal(t, schema.Document{"e": "VIPER-2"}, changed)
		assert.Equal(t, []string{"p"}, removed)
	})
}
