package parser

import (
	"strconv"
	"time"

	"github.com/getditto-shared/ditto-cot/types"
)

// CoT timestamps are RFC 3339 with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Point is the location element of a CoT event. Coordinates are kept
// as the verbatim attribute strings; use the typed accessors when a
// float view is needed.
type Point struct {
	// Lat is the latitude in decimal degrees (WGS-84).
	Lat string `json:"lat"`

	// Lon is the longitude in decimal degrees (WGS-84).
	Lon string `json:"lon"`

	// Hae is the height above the WGS-84 ellipsoid, in meters.
	Hae string `json:"hae"`

	// Ce is the circular (horizontal) error, in meters.
	Ce string `json:"ce"`

	// Le is the linear (vertical) error, in meters.
	Le string `json:"le"`
}

// Coords returns the parsed latitude and longitude.
func (p Point) Coords() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err = strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// Event is one CoT event: the fixed envelope plus the freeform detail
// tree. Zero-value string fields marshal as absent attributes.
type Event struct {
	// Version is the CoT schema version, normally "2.0".
	Version string `json:"version"`

	// UID uniquely identifies the object this event describes. Events
	// sharing a UID are updates to the same object.
	UID string `json:"uid"`

	// Type is the CoT type hierarchy string (e.g. "a-f-G-U-C").
	Type string `json:"type"`

	// Time is when the event was generated.
	Time string `json:"time"`

	// Start is when the event becomes valid.
	Start string `json:"start"`

	// Stale is when the event expires.
	Stale string `json:"stale"`

	// How describes the source of the position (e.g. "m-g" for GPS).
	How string `json:"how,omitempty"`

	// Access, Qos and Opex are optional envelope attributes carried
	// through verbatim.
	Access string `json:"access,omitempty"`
	Qos    string `json:"qos,omitempty"`
	Opex   string `json:"opex,omitempty"`

	// Point is the event's location.
	Point Point `json:"point"`

	// Detail is the parsed detail section, or nil when the event has
	// none. Its children are the top-level detail elements.
	Detail *types.ElementNode `json:"detail,omitempty"`
}

// New returns an event with the given uid and type, version 2.0, and
// all three timestamps set to now (stale offset by ttl).
func New(uid, cotType string, ttl time.Duration) *Event {
	now := time.Now().UTC()
	return &Event{
		Version: "2.0",
		UID:     uid,
		Type:    cotType,
		Time:    now.Format(timeLayout),
		Start:   now.Format(timeLayout),
		Stale:   now.Add(ttl).Format(timeLayout),
		Point:   Point{Lat: "0.0", Lon: "0.0", Hae: "0.0", Ce: "9999999.0", Le: "9999999.0"},
	}
}

// TimeAt returns the parsed generation timestamp.
func (e *Event) TimeAt() (time.Time, error) {
	return parseTime(e.Time)
}

// StartAt returns the parsed validity-start timestamp.
func (e *Event) StartAt() (time.Time, error) {
	return parseTime(e.Start)
}

// StaleAt returns the parsed expiry timestamp.
func (e *Event) StaleAt() (time.Time, error) {
	return parseTime(e.Stale)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FormatTime renders t the way CoT timestamps are written.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Callsign returns the callsign from the detail's contact element, or
// "" when the event carries none.
func (e *Event) Callsign() string {
	if e.Detail == nil {
		return ""
	}
	contact := e.Detail.FirstChild("contact")
	if contact == nil {
		return ""
	}
	cs, _ := contact.Attr("callsign")
	return cs
}
