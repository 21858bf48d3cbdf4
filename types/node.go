package types

// Attr is a single XML attribute. Attribute order within an element is
// preserved by the parser but carries no meaning for translation.
type Attr struct {
	// Name is the attribute name, without namespace processing.
	Name string `json:"name"`

	// Value is the attribute value, verbatim.
	Value string `json:"value"`
}

// ElementNode is one node of a parsed detail tree: a tag name, ordered
// attributes with unique names, ordered element children, and optional
// text content. Text is meaningful only when the node has no element
// children; mixed content is not part of the detail contract.
//
// Nodes are built by the parser (or by hand in tests) and must not be
// mutated once handed to the encoder.
type ElementNode struct {
	// Tag is the element name.
	Tag string `json:"tag"`

	// Attrs holds the element's attributes in document order.
	Attrs []Attr `json:"attrs,omitempty"`

	// Children holds the element's child elements in document order.
	Children []*ElementNode `json:"children,omitempty"`

	// Text is the element's character data. Only consulted when
	// Children is empty.
	Text string `json:"text,omitempty"`
}

// Attr returns the value of the named attribute and whether it exists.
func (n *ElementNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing an existing value or
// appending a new attribute.
func (n *ElementNode) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// HasChildren reports whether the node has any element children.
func (n *ElementNode) HasChildren() bool {
	return len(n.Children) > 0
}

// ChildrenByTag returns the node's direct children with the given tag,
// in document order.
func (n *ElementNode) ChildrenByTag(tag string) []*ElementNode {
	var out []*ElementNode
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child with the given tag, or nil.
func (n *ElementNode) FirstChild(tag string) *ElementNode {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the node.
func (n *ElementNode) Clone() *ElementNode {
	if n == nil {
		return nil
	}
	out := &ElementNode{
		Tag:  n.Tag,
		Text: n.Text,
	}
	if len(n.Attrs) > 0 {
		out.Attrs = make([]Attr, len(n.Attrs))
		copy(out.Attrs, n.Attrs)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*ElementNode, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Equal reports whether two nodes are structurally identical: same tag,
// same attributes in the same order, same text, and pairwise-equal
// children in the same order.
func (n *ElementNode) Equal(other *ElementNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Tag != other.Tag || n.Text != other.Text {
		return false
	}
	if len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	for i, a := range n.Attrs {
		if a != other.Attrs[i] {
			return false
		}
	}
	for i, c := range n.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// EquivalentTo reports whether two nodes are equal up to the ordering
// of differently-tagged siblings and of attributes. Relative order
// within a tag name still matters; order between tag names does not.
// This is the equivalence the detail round-trip guarantees, since the
// detail schema treats inter-tag sibling order (and attribute order) as
// insignificant.
func (n *ElementNode) EquivalentTo(other *ElementNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Tag != other.Tag || n.Text != other.Text {
		return false
	}
	if len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	for _, a := range n.Attrs {
		if v, ok := other.Attr(a.Name); !ok || v != a.Value {
			return false
		}
	}
	groups := map[string][]*ElementNode{}
	for _, c := range n.Children {
		groups[c.Tag] = append(groups[c.Tag], c)
	}
	otherGroups := map[string][]*ElementNode{}
	for _, c := range other.Children {
		otherGroups[c.Tag] = append(otherGroups[c.Tag], c)
	}
	if len(groups) != len(otherGroups) {
		return false
	}
	for tag, group := range groups {
		otherGroup, ok := otherGroups[tag]
		if !ok || len(group) != len(otherGroup) {
			return false
		}
		for i, c := range group {
			if !c.EquivalentTo(otherGroup[i]) {
				return false
			}
		}
	}
	return true
}
