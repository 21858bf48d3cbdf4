package keys

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/getditto-shared/ditto-cot/types"
)

// Digest parameters. These values are load-bearing: changing any of
// them changes every stable key ever generated, so they are fixed for
// the life of the scheme.
const (
	// salt is mixed into every digest so detail keys occupy their own
	// hash domain.
	salt = "ditto-cot-detail-v1"

	// DefaultDigestLength is the initial printable prefix length.
	DefaultDigestLength = 6

	// DigestStep is how many characters a prefix grows per collision
	// round.
	DigestStep = 2
)

// ErrEmptyDocumentID is returned when a key is requested for an empty
// document identifier. The document id seeds the digest, so an empty id
// would silently produce keys that collide across documents.
var ErrEmptyDocumentID = errors.New("document id must not be empty")

// maxDigestLength is the full base64url rendering of a SHA-256 digest.
const maxDigestLength = 43

// Digest returns the printable digest prefix for (docID, tag) at the
// default length.
func Digest(docID, tag string) (string, error) {
	return DigestWithLength(docID, tag, DefaultDigestLength)
}

// DigestWithLength returns the printable digest prefix truncated to
// length characters. Lengths beyond the full digest are capped.
func DigestWithLength(docID, tag string, length int) (string, error) {
	if docID == "" {
		return "", ErrEmptyDocumentID
	}
	h := sha256.New()
	h.Write([]byte(docID))
	h.Write([]byte{0})
	h.Write([]byte(tag))
	h.Write([]byte{0})
	h.Write([]byte(salt))
	enc := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	if length <= 0 {
		length = DefaultDigestLength
	}
	if length > maxDigestLength {
		length = maxDigestLength
	}
	return enc[:length], nil
}

// Generate returns the stable key "<digest>_<index>" for the index-th
// occurrence of tag within the document.
func Generate(docID, tag string, index int) (string, error) {
	return GenerateWithLength(docID, tag, index, DefaultDigestLength)
}

// GenerateWithLength is Generate with an explicit digest prefix length,
// used by the encoder's collision-extension loop.
func GenerateWithLength(docID, tag string, index, length int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("element index must not be negative, got %d", index)
	}
	d, err := DigestWithLength(docID, tag, length)
	if err != nil {
		return "", err
	}
	return d + "_" + strconv.Itoa(index), nil
}

// NextAvailableIndex returns the occurrence index a new element with
// the given tag should take when appended to an already-encoded map:
// one past the highest existing index, or 0 when the tag is absent.
//
// The scan matches on entry metadata rather than map keys, so it finds
// occurrences regardless of whether they were stored under a bare tag
// key or a stable key. Entries belonging to a different document id are
// ignored.
//
// Two replicas appending concurrently can both observe the same maximum
// and allocate the same index; that conflict is resolved by the store's
// per-field merge policy, not here.
func NextAvailableIndex(m types.DetailFieldMap, docID, tag string) int {
	next := 0
	for _, v := range m {
		entryTag, entryDoc, index, ok := types.EntryMeta(v)
		if !ok || entryTag != tag {
			continue
		}
		if docID != "" && entryDoc != "" && entryDoc != docID {
			continue
		}
		if index+1 > next {
			next = index + 1
		}
	}
	return next
}
