package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/getditto-shared/ditto-cot/types"
)

// Parse reads a single CoT event document. The envelope is validated
// (uid, type and point are required); the detail section, if present,
// is parsed into a generic element tree with document order preserved.
func Parse(data []byte) (*Event, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var start *xml.StartElement
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no event element found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CoT XML: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			start = &se
			break
		}
	}
	if start.Name.Local != "event" {
		return nil, fmt.Errorf("expected event element, found %q", start.Name.Local)
	}

	event := &Event{}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "version":
			event.Version = a.Value
		case "uid":
			event.UID = a.Value
		case "type":
			event.Type = a.Value
		case "time":
			event.Time = a.Value
		case "start":
			event.Start = a.Value
		case "stale":
			event.Stale = a.Value
		case "how":
			event.How = a.Value
		case "access":
			event.Access = a.Value
		case "qos":
			event.Qos = a.Value
		case "opex":
			event.Opex = a.Value
		}
	}

	sawPoint := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CoT XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "point":
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "lat":
						event.Point.Lat = a.Value
					case "lon":
						event.Point.Lon = a.Value
					case "hae":
						event.Point.Hae = a.Value
					case "ce":
						event.Point.Ce = a.Value
					case "le":
						event.Point.Le = a.Value
					}
				}
				sawPoint = true
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("failed to parse CoT XML: %w", err)
				}
			case "detail":
				node, err := parseElement(dec, t)
				if err != nil {
					return nil, fmt.Errorf("failed to parse detail section: %w", err)
				}
				event.Detail = node
			default:
				// Unknown envelope children are not part of the CoT
				// schema; skip them rather than failing.
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("failed to parse CoT XML: %w", err)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "event" {
				return validated(event, sawPoint)
			}
		}
	}
	return validated(event, sawPoint)
}

func validated(event *Event, sawPoint bool) (*Event, error) {
	if event.UID == "" {
		return nil, fmt.Errorf("event is missing required uid attribute")
	}
	if event.Type == "" {
		return nil, fmt.Errorf("event is missing required type attribute")
	}
	if !sawPoint {
		return nil, fmt.Errorf("event is missing required point element")
	}
	return event, nil
}

// parseElement reads the subtree rooted at start into an ElementNode.
// Character data is kept only for leaf elements, matching the detail
// contract that text is meaningful only without element children.
func parseElement(dec *xml.Decoder, start xml.StartElement) (*types.ElementNode, error) {
	node := &types.ElementNode{Tag: start.Name.Local}
	for _, a := range start.Attr {
		// Namespace declarations are envelope noise, not detail data.
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		node.Attrs = append(node.Attrs, types.Attr{Name: a.Name.Local, Value: a.Value})
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(node.Children) == 0 {
				node.Text = strings.TrimSpace(text.String())
			}
			return node, nil
		}
	}
}

// Marshal renders the event as a CoT XML document. Envelope attributes
// appear in canonical order; empty optional attributes are omitted.
// The detail tree is written back in its stored order.
func (e *Event) Marshal() ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("cannot marshal nil event")
	}
	if e.UID == "" {
		return nil, fmt.Errorf("event is missing required uid attribute")
	}
	if e.Type == "" {
		return nil, fmt.Errorf("event is missing required type attribute")
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	attrs := []xml.Attr{
		{Name: xml.Name{Local: "version"}, Value: orDefault(e.Version, "2.0")},
		{Name: xml.Name{Local: "uid"}, Value: e.UID},
		{Name: xml.Name{Local: "type"}, Value: e.Type},
		{Name: xml.Name{Local: "time"}, Value: e.Time},
		{Name: xml.Name{Local: "start"}, Value: e.Start},
		{Name: xml.Name{Local: "stale"}, Value: e.Stale},
	}
	for _, opt := range []struct{ name, value string }{
		{"how", e.How},
		{"access", e.Access},
		{"qos", e.Qos},
		{"opex", e.Opex},
	} {
		if opt.value != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: opt.name}, Value: opt.value})
		}
	}
	eventStart := xml.StartElement{Name: xml.Name{Local: "event"}, Attr: attrs}
	if err := enc.EncodeToken(eventStart); err != nil {
		return nil, err
	}

	pointStart := xml.StartElement{
		Name: xml.Name{Local: "point"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "lat"}, Value: orDefault(e.Point.Lat, "0.0")},
			{Name: xml.Name{Local: "lon"}, Value: orDefault(e.Point.Lon, "0.0")},
			{Name: xml.Name{Local: "hae"}, Value: orDefault(e.Point.Hae, "0.0")},
			{Name: xml.Name{Local: "ce"}, Value: orDefault(e.Point.Ce, "9999999.0")},
			{Name: xml.Name{Local: "le"}, Value: orDefault(e.Point.Le, "9999999.0")},
		},
	}
	if err := enc.EncodeToken(pointStart); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(pointStart.End()); err != nil {
		return nil, err
	}

	if e.Detail != nil {
		if err := encodeElement(enc, e.Detail); err != nil {
			return nil, err
		}
	}

	if err := enc.EncodeToken(eventStart.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, node *types.ElementNode) error {
	attrs := make([]xml.Attr, 0, len(node.Attrs))
	for _, a := range node.Attrs {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	start := xml.StartElement{Name: xml.Name{Local: node.Tag}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if len(node.Children) == 0 && node.Text != "" {
		if err := enc.EncodeToken(xml.CharData(node.Text)); err != nil {
			return err
		}
	}
	for _, c := range node.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
