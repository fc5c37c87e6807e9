package domain

import (
	"encoding/xml"
	"time"
)

// Units reported by the OEM feed for positions and velocities.
const (
	unitsKilometers = "km"
	unitsKmPerSec   = "km/s"
)

// Block is an opaque key/value section of the OEM document, such as the
// header or the segment metadata. Child element names map to their text
// content and the whole block is passed through to clients verbatim.
type Block map[string]string

// UnmarshalXML collects the direct child elements of the block into the
// map. Nested structure is not expected in OEM header or metadata blocks.
func (b *Block) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m := make(Block)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			m[t.Name.Local] = value
		case xml.EndElement:
			if t.Name == start.Name {
				*b = m
				return nil
			}
		}
	}
}

// Vector3 is a position in the J2000 frame, in kilometers.
type Vector3 struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Units string  `json:"units"`
}

// Velocity3 is a velocity in the J2000 frame, in kilometers per second.
// The component names follow the OEM element names (X_DOT, Y_DOT, Z_DOT).
type Velocity3 struct {
	XDot  float64 `json:"x_dot"`
	YDot  float64 `json:"y_dot"`
	ZDot  float64 `json:"z_dot"`
	Units string  `json:"units"`
}

// StateVector is one ephemeris record: where the station was and how fast
// it was moving at a given epoch.
type StateVector struct {
	Epoch    string    `json:"epoch"` // raw epoch string, the record key
	Position Vector3   `json:"position"`
	Velocity Velocity3 `json:"velocity"`

	// EpochTime is the parsed UTC instant of Epoch. Derived at load time,
	// not part of the wire representation.
	EpochTime time.Time `json:"-"`
}

// Dataset is a fully parsed OEM document. A Dataset is immutable once
// built; refreshes construct a new one and swap it in whole.
type Dataset struct {
	Header       Block         `json:"header"`
	Metadata     Block         `json:"metadata"`
	Comments     []string      `json:"comments"`
	StateVectors []StateVector `json:"state_vectors"`

	// Provenance, set by the loader. Not part of the client-facing shape.
	Source    string    `json:"-"`
	FetchedAt time.Time `json:"-"`
}

// Measurement is a scalar with its unit, e.g. a speed in km/s.
type Measurement struct {
	Value float64 `json:"value"`
	Units string  `json:"units"`
}

// Location is the geographic position derived from a state vector.
type Location struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Altitude  Measurement `json:"altitude"`
	Place     string      `json:"place"`
}

// NowState describes the record closest to a requested instant together
// with its derived quantities.
type NowState struct {
	ClosestEpoch   string      `json:"closest_epoch"`
	SecondsFromNow float64     `json:"seconds_from_now"` // positive when the instant is after the epoch
	Location       Location    `json:"location"`
	Speed          Measurement `json:"speed"`
}
