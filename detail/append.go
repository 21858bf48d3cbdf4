package detail

import (
	"github.com/getditto-shared/ditto-cot/keys"
	"github.com/getditto-shared/ditto-cot/types"
)

// AppendEntry encodes one new element into an existing field map,
// allocating the next free occurrence index by scanning the map's
// metadata rather than re-encoding the source tree. Returns the key the
// new entry was stored under.
//
// A first occurrence takes the bare tag key; later occurrences take
// stable keys. Entries already in the map keep the keys they have, so
// appending a duplicate to a former singleton leaves the original entry
// under its bare name; the decoder goes by metadata, not keys, and
// reassembles the group regardless.
//
// Two replicas appending concurrently can allocate the same index; see
// keys.NextAvailableIndex.
func AppendEntry(m types.DetailFieldMap, n *types.ElementNode, docID string) (string, error) {
	if docID == "" {
		return "", keys.ErrEmptyDocumentID
	}

	index := keys.NextAvailableIndex(m, docID, n.Tag)

	key := n.Tag
	if index > 0 {
		length := keys.DefaultDigestLength
		for {
			k, err := keys.GenerateWithLength(docID, n.Tag, index, length)
			if err != nil {
				return "", err
			}
			key = k
			if _, taken := m[key]; !taken {
				break
			}
			length += keys.DigestStep
		}
	}

	m[key] = encodeElement(n, docID, index)
	return key, nil
}
