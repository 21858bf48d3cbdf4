package schema

import "strings"

// DocType identifies which document shape an event maps onto.
type DocType string

// The closed set of document shapes.
const (
	// DocTypeMapItem is a located object on the map: tracks, units,
	// markers. Every atom-type event ("a-" hierarchy) lands here.
	DocTypeMapItem DocType = "map_item"

	// DocTypeChat is a GeoChat message.
	DocTypeChat DocType = "chat"

	// DocTypeFile is a file-share reference.
	DocTypeFile DocType = "file"

	// DocTypeAPI is an emergency or api-originated alert event.
	DocTypeAPI DocType = "api"

	// DocTypeGeneric is the fallback for any type string the fixed
	// table does not recognize.
	DocTypeGeneric DocType = "generic"
)

// String returns the document type's name.
func (t DocType) String() string {
	return string(t)
}

// Collection returns the store collection documents of this type live
// in. Collections are named after the shape.
func (t DocType) Collection() string {
	return string(t)
}

// Classify routes a CoT type string to a document shape. The table is
// fixed string matching, checked most-specific first:
//
//	prefix "b-f-t-f"      -> file share
//	substring "b-t-f"     -> chat
//	prefix "b-a-o"        -> api/emergency
//	prefix "a-"           -> map item
//	anything else         -> generic
func Classify(cotType string) DocType {
	switch {
	case strings.HasPrefix(cotType, "b-f-t-f"):
		return DocTypeFile
	case strings.Contains(cotType, "b-t-f"):
		return DocTypeChat
	case strings.HasPrefix(cotType, "b-a-o"):
		return DocTypeAPI
	case strings.HasPrefix(cotType, "a-"):
		return DocTypeMapItem
	default:
		return DocTypeGeneric
	}
}
