package detail

import (
	"log/slog"
	"sort"

	"github.com/getditto-shared/ditto-cot/types"
)

// ContainerTag is the tag of the synthetic element Decode wraps the
// reconstructed children in.
const ContainerTag = "detail"

// Decode rebuilds an element tree from an encoded field map, logging
// skipped entries to slog.Default. See DecodeWithLogger.
func Decode(m types.DetailFieldMap) *types.ElementNode {
	return DecodeWithLogger(m, slog.Default())
}

// DecodeWithLogger rebuilds an element tree from an encoded field map.
//
// Entries are grouped by their recorded tag metadata, never by map
// key, so it makes no difference which key regime produced an entry.
// Each group is ordered by occurrence index. An entry that is not a
// map variant or lacks its tag metadata cannot be placed in the tree;
// it is logged at Warn and skipped, and the rest of the map still
// decodes. Partial reconstruction beats total failure for documents
// that are mid-sync.
//
// Tag groups are emitted in lexical tag order. Order within a tag is
// the original occurrence order; order between tags is not part of the
// round-trip contract and is chosen only to keep output deterministic.
func DecodeWithLogger(m types.DetailFieldMap, logger *slog.Logger) *types.ElementNode {
	if logger == nil {
		logger = slog.Default()
	}
	root := &types.ElementNode{Tag: ContainerTag}
	root.Children = decodeGroups(m, logger)
	return root
}

type indexedNode struct {
	index int
	node  *types.ElementNode
}

// decodeGroups decodes every well-formed entry of m and returns the
// nodes grouped by tag and ordered by index.
func decodeGroups(m map[string]types.FieldValue, logger *slog.Logger) []*types.ElementNode {
	groups := make(map[string][]indexedNode)
	for _, key := range sortedKeys(m) {
		v := m[key]
		tag, _, index, ok := types.EntryMeta(v)
		if !ok {
			logger.Warn("skipping detail entry without tag metadata", "key", key)
			continue
		}
		groups[tag] = append(groups[tag], indexedNode{index: index, node: decodeElement(tag, v, logger)})
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var out []*types.ElementNode
	for _, tag := range tags {
		group := groups[tag]
		sort.SliceStable(group, func(i, j int) bool { return group[i].index < group[j].index })
		for _, e := range group {
			out = append(out, e.node)
		}
	}
	return out
}

// decodeElement rebuilds one element from its map variant. String (and
// other scalar) entries outside the reserved keys become attributes;
// map entries become recursively decoded children.
func decodeElement(tag string, v types.FieldValue, logger *slog.Logger) *types.ElementNode {
	m, _ := v.AsMap()
	node := &types.ElementNode{Tag: tag}

	children := make(map[string]types.FieldValue)
	for _, key := range sortedKeys(m) {
		switch key {
		case types.KeyTag, types.KeyDocID, types.KeyElementIndex:
			continue
		case types.KeyText:
			node.Text, _ = m[key].AsString()
			continue
		}
		val := m[key]
		if val.Kind() == types.KindMap {
			children[key] = val
			continue
		}
		// Attributes were encoded as strings; Raw also renders number
		// and boolean entries written by other peers.
		node.Attrs = append(node.Attrs, types.Attr{Name: key, Value: val.Raw()})
	}

	if len(children) > 0 {
		node.Text = ""
		node.Children = decodeGroups(children, logger)
	}
	return node
}

func sortedKeys(m map[string]types.FieldValue) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
