package domain

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ParseOEM parses a raw OEM XML document into a Dataset. The document
// must contain at least one state vector, and every epoch and numeric
// component must parse; a document that fails any of these checks yields
// ErrParse and no Dataset, so a caller holding an older Dataset can keep
// serving it.
func ParseOEM(doc []byte) (*Dataset, error) {
	var parsed oemDocument
	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	raw := parsed.Segment.Data.StateVectors
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: document contains no state vectors", ErrParse)
	}

	vectors := make([]StateVector, 0, len(raw))
	for i, sv := range raw {
		vec, err := buildStateVector(sv)
		if err != nil {
			return nil, fmt.Errorf("%w: state vector %d: %v", ErrParse, i, err)
		}
		vectors = append(vectors, vec)
	}

	return &Dataset{
		Header:       parsed.Header,
		Metadata:     parsed.Segment.Metadata,
		Comments:     parsed.Segment.Data.Comments,
		StateVectors: vectors,
	}, nil
}

func buildStateVector(raw oemStateVector) (StateVector, error) {
	epoch := strings.TrimSpace(raw.Epoch)
	epochTime, err := ParseEpoch(epoch)
	if err != nil {
		return StateVector{}, err
	}

	x, err := parseComponent("X", raw.X)
	if err != nil {
		return StateVector{}, err
	}
	y, err := parseComponent("Y", raw.Y)
	if err != nil {
		return StateVector{}, err
	}
	z, err := parseComponent("Z", raw.Z)
	if err != nil {
		return StateVector{}, err
	}
	xDot, err := parseComponent("X_DOT", raw.XDot)
	if err != nil {
		return StateVector{}, err
	}
	yDot, err := parseComponent("Y_DOT", raw.YDot)
	if err != nil {
		return StateVector{}, err
	}
	zDot, err := parseComponent("Z_DOT", raw.ZDot)
	if err != nil {
		return StateVector{}, err
	}

	return StateVector{
		Epoch:     epoch,
		EpochTime: epochTime,
		Position:  Vector3{X: x, Y: y, Z: z, Units: unitsOrDefault(raw.X.Units, unitsKilometers)},
		Velocity:  Velocity3{XDot: xDot, YDot: yDot, ZDot: zDot, Units: unitsOrDefault(raw.XDot.Units, unitsKmPerSec)},
	}, nil
}

func parseComponent(name string, scalar oemScalar) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(scalar.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %v", name, scalar.Value, err)
	}
	return v, nil
}

func unitsOrDefault(units, fallback string) string {
	if units == "" {
		return fallback
	}
	return units
}

// OEM XML wire types. The document root is <ndm>, wrapping one <oem>
// element with a header and a single body segment.

type oemDocument struct {
	XMLName xml.Name   `xml:"ndm"`
	Header  Block      `xml:"oem>header"`
	Segment oemSegment `xml:"oem>body>segment"`
}

type oemSegment struct {
	Metadata Block   `xml:"metadata"`
	Data     oemData `xml:"data"`
}

type oemData struct {
	Comments     []string         `xml:"COMMENT"`
	StateVectors []oemStateVector `xml:"stateVector"`
}

type oemStateVector struct {
	Epoch string    `xml:"EPOCH"`
	X     oemScalar `xml:"X"`
	Y     oemScalar `xml:"Y"`
	Z     oemScalar `xml:"Z"`
	XDot  oemScalar `xml:"X_DOT"`
	YDot  oemScalar `xml:"Y_DOT"`
	ZDot  oemScalar `xml:"Z_DOT"`
}

type oemScalar struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}
