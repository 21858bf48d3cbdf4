package schema

// Document field names. The store schema uses short fixed names to keep
// per-field sync overhead low; the letters are part of the external
// store's schema and must not change.
const (
	// FieldID is the document identifier.
	FieldID = "_id"

	// FieldDocType records which shape the document was classified as.
	FieldDocType = "_t"

	// FieldTimeMillis is the event generation time, epoch milliseconds.
	FieldTimeMillis = "b"

	// FieldAuthorUID is the CoT uid of the object the event describes.
	FieldAuthorUID = "d"

	// FieldCallsign is the contact callsign, when the detail carries one.
	FieldCallsign = "e"

	// FieldVersion is the CoT schema version.
	FieldVersion = "g"

	// FieldCe is the circular error, meters.
	FieldCe = "h"

	// FieldHae is the height above ellipsoid, meters.
	FieldHae = "i"

	// FieldLat is the latitude, decimal degrees.
	FieldLat = "j"

	// FieldLe is the linear error, meters.
	FieldLe = "k"

	// FieldLon is the longitude, decimal degrees.
	FieldLon = "l"

	// FieldStartMillis is the validity start, epoch milliseconds.
	FieldStartMillis = "n"

	// FieldStaleMillis is the expiry, epoch milliseconds.
	FieldStaleMillis = "o"

	// FieldHow is the position source code.
	FieldHow = "p"

	// FieldAccess is the optional access attribute.
	FieldAccess = "q"

	// FieldDetail is the encoded detail field map.
	FieldDetail = "r"

	// FieldQos is the optional qos attribute.
	FieldQos = "s"

	// FieldOpex is the optional opex attribute.
	FieldOpex = "t"

	// FieldType is the CoT type string.
	FieldType = "w"
)

// detailPrefix prefixes flattened detail entries at the document's top
// level.
const detailPrefix = FieldDetail + "_"
