package detail

import (
	"strconv"

	"github.com/getditto-shared/ditto-cot/keys"
	"github.com/getditto-shared/ditto-cot/types"
)

// Encode flattens the children of root into a field map owned by the
// document docID. root itself is only a container; its tag and
// attributes are not encoded.
//
// Tags occurring exactly once at the top level are keyed by their bare
// name; repeated tags are keyed by keys.Generate. Every produced entry,
// singletons included, carries the reserved metadata keys so decoding
// never depends on which key regime an entry used. The output entry
// count always equals len(root.Children).
//
// Encode is pure: the same (root, docID) pair yields an equal map on
// every call, in any process.
func Encode(root *types.ElementNode, docID string) (types.DetailFieldMap, error) {
	if docID == "" {
		return nil, keys.ErrEmptyDocumentID
	}
	fields := make(types.DetailFieldMap)
	if root == nil || len(root.Children) == 0 {
		return fields, nil
	}

	counts := make(map[string]int, len(root.Children))
	for _, c := range root.Children {
		counts[c.Tag]++
	}

	digests := chooseDigests(root, docID, counts)

	running := make(map[string]int, len(counts))
	for _, c := range root.Children {
		index := running[c.Tag]
		running[c.Tag]++

		key := c.Tag
		if counts[c.Tag] > 1 {
			key = digests[c.Tag] + "_" + strconv.Itoa(index)
		}
		fields[key] = encodeElement(c, docID, index)
	}
	return fields, nil
}

// chooseDigests picks one digest prefix per repeated tag. Truncated
// digests of different tags can collide; when one does, the later tag
// (in first-occurrence document order) extends its prefix by
// keys.DigestStep until it is unique among the digests already chosen.
// The walk order is the document order of the input, so independent
// encoders of the same tree agree on every chosen length.
func chooseDigests(root *types.ElementNode, docID string, counts map[string]int) map[string]string {
	digests := make(map[string]string)
	taken := make(map[string]struct{})
	for _, c := range root.Children {
		if counts[c.Tag] == 1 {
			continue
		}
		if _, done := digests[c.Tag]; done {
			continue
		}
		length := keys.DefaultDigestLength
		for {
			// docID was validated by Encode; DigestWithLength cannot
			// fail here.
			d, _ := keys.DigestWithLength(docID, c.Tag, length)
			if _, clash := taken[d]; !clash {
				digests[c.Tag] = d
				taken[d] = struct{}{}
				break
			}
			length += keys.DigestStep
		}
	}
	return digests
}

// encodeElement converts one element into the map-variant FieldValue
// stored in the field map. Nested children are keyed by their own tag
// name, with a "_<index>" suffix disambiguating repeats past the first;
// their metadata still records the true tag and index, which is what
// the decoder trusts.
func encodeElement(n *types.ElementNode, docID string, index int) types.FieldValue {
	m := make(map[string]types.FieldValue, len(n.Attrs)+len(n.Children)+4)
	m[types.KeyTag] = types.StringValue(n.Tag)
	m[types.KeyDocID] = types.StringValue(docID)
	m[types.KeyElementIndex] = types.IntValue(index)

	for _, a := range n.Attrs {
		m[a.Name] = types.StringValue(a.Value)
	}

	if len(n.Children) == 0 {
		if n.Text != "" {
			m[types.KeyText] = types.StringValue(n.Text)
		}
		return types.MapValue(m)
	}

	running := make(map[string]int, len(n.Children))
	for _, c := range n.Children {
		childIndex := running[c.Tag]
		running[c.Tag]++

		key := c.Tag
		if childIndex > 0 {
			key = c.Tag + "_" + strconv.Itoa(childIndex)
		}
		m[key] = encodeElement(c, docID, childIndex)
	}
	return types.MapValue(m)
}
