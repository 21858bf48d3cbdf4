package cot

import (
	"errors"

	"github.com/getditto-shared/ditto-cot/keys"
)

// Sentinel errors for common translation error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNilEvent indicates a nil event was offered for conversion.
	ErrNilEvent = errors.New("event is nil")

	// ErrNilDocument indicates a nil document was offered for
	// conversion.
	ErrNilDocument = errors.New("document is nil")

	// ErrEmptyDocumentID indicates a document id resolved to the empty
	// string. The id seeds stable key generation, so an empty id would
	// break key determinism; it is rejected at the boundary.
	ErrEmptyDocumentID = keys.ErrEmptyDocumentID
)
