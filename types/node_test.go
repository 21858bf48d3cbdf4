package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementNodeAttrs(t *testing.T) {
	n := &ElementNode{Tag: "contact"}
	n.SetAttr("callsign", "ALPHA-1")
	n.SetAttr("endpoint", "192.168.1.10:4242:tcp")

	v, ok := n.Attr("callsign")
	assert.True(t, ok)
	assert.Equal(t, "ALPHA-1", v)

	_, ok = n.Attr("missing")
	assert.False(t, ok)

	// SetAttr replaces in place, preserving position.
	n.SetAttr("callsign", "BRAVO-2")
	require.Len(t, n.Attrs, 2)
	assert.Equal(t, "callsign", n.Attrs[0].Name)
	assert.Equal(t, "BRAVO-2", n.Attrs[0].Value)
}

func TestElementNodeChildren(t *testing.T) {
	root := &ElementNode{
		Tag: "detail",
		Children: []*ElementNode{
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "0"}}},
			{Tag: "status"},
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "1"}}},
		},
	}

	assert.True(t, root.HasChildren())
	assert.Len(t, root.ChildrenByTag("sensor"), 2)
	assert.Nil(t, root.FirstChild("missing"))

	first := root.FirstChild("sensor")
	require.NotNil(t, first)
	v, _ := first.Attr("n")
	assert.Equal(t, "0", v)
}

func TestElementNodeClone(t *testing.T) {
	original := &ElementNode{
		Tag:   "group",
		Attrs: []Attr{{Name: "name", Value: "red"}},
		Children: []*ElementNode{
			{Tag: "member", Text: "m1"},
		},
	}

	clone := original.Clone()
	require.True(t, original.Equal(clone))

	clone.Children[0].Text = "changed"
	clone.SetAttr("name", "blue")
	assert.Equal(t, "m1", original.Children[0].Text, "clone must be deep")
	name, _ := original.Attr("name")
	assert.Equal(t, "red", name)
}

func TestElementNodeEqual(t *testing.T) {
	a := &ElementNode{Tag: "sensor", Attrs: []Attr{{Name: "type", Value: "optical"}}}
	b := &ElementNode{Tag: "sensor", Attrs: []Attr{{Name: "type", Value: "optical"}}}
	c := &ElementNode{Tag: "sensor", Attrs: []Attr{{Name: "type", Value: "thermal"}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*ElementNode)(nil).Equal(nil))
}

func TestElementNodeEquivalentTo(t *testing.T) {
	t.Run("inter-tag order ignored", func(t *testing.T) {
		a := &ElementNode{Tag: "detail", Children: []*ElementNode{
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "0"}}},
			{Tag: "status"},
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "1"}}},
		}}
		b := &ElementNode{Tag: "detail", Children: []*ElementNode{
			{Tag: "status"},
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "0"}}},
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "1"}}},
		}}
		assert.True(t, a.EquivalentTo(b))
		assert.False(t, a.Equal(b))
	})

	t.Run("within-tag order still matters", func(t *testing.T) {
		a := &ElementNode{Tag: "detail", Children: []*ElementNode{
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "0"}}},
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "1"}}},
		}}
		b := &ElementNode{Tag: "detail", Children: []*ElementNode{
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "1"}}},
			{Tag: "sensor", Attrs: []Attr{{Name: "n", Value: "0"}}},
		}}
		assert.False(t, a.EquivalentTo(b))
	})

	t.Run("attribute order ignored", func(t *testing.T) {
		a := &ElementNode{Tag: "track", Attrs: []Attr{
			{Name: "course", Value: "245.3"},
			{Name: "speed", Value: "12.5"},
		}}
		b := &ElementNode{Tag: "track", Attrs: []Attr{
			{Name: "speed", Value: "12.5"},
			{Name: "course", Value: "245.3"},
		}}
		assert.True(t, a.EquivalentTo(b))
		assert.False(t, a.Equal(b))
	})
}
