// Command oemsnap fetches an OEM ephemeris document, validates it with the
// actual domain parser, and writes trimmed fixtures for the test suites.
// The XML output preserves the wire shape the service consumes; the JSON
// output matches the client-facing dataset shape the API serves.
//
// Usage:
//
//	go run ./cmd/oemsnap \
//	  -out data/mock/iss_oem_sample.xml \
//	  -json-out data/mock/iss_oem_sample.json \
//	  -max-vectors 8
package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dhannywi/surfwax-iss/internal/adapter/nasa"
	"github.com/dhannywi/surfwax-iss/internal/config"
	"github.com/dhannywi/surfwax-iss/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	source := flag.String("source", config.DefaultOEMSourceURL, "feed URL to fetch when -in is not set")
	in := flag.String("in", "", "local OEM XML file to read instead of fetching")
	out := flag.String("out", "", "output path for the XML fixture")
	jsonOut := flag.String("json-out", "", "output path for the dataset JSON fixture")
	maxVectors := flag.Int("max-vectors", 8, "keep at most this many state vectors (0 keeps all)")
	flag.Parse()

	if *out == "" && *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out or -json-out")
	}

	raw, err := readSource(*in, *source)
	if err != nil {
		return err
	}

	// Parse with the real domain parser so the fixture is exactly what the
	// service would accept.
	ds, err := domain.ParseOEM(raw)
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	log.Printf("parsed %d state vectors", len(ds.StateVectors))

	if *maxVectors > 0 && len(ds.StateVectors) > *maxVectors {
		ds.StateVectors = ds.StateVectors[:*maxVectors]
		// Keep the metadata window consistent with the trimmed vectors.
		if _, ok := ds.Metadata["STOP_TIME"]; ok {
			ds.Metadata["STOP_TIME"] = ds.StateVectors[len(ds.StateVectors)-1].Epoch
		}
		log.Printf("trimmed to %d state vectors", len(ds.StateVectors))
	}

	if *out != "" {
		if err := writeXML(*out, ds); err != nil {
			return fmt.Errorf("writing XML fixture: %w", err)
		}
		log.Printf("wrote XML fixture: %s", *out)
	}
	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, ds); err != nil {
			return fmt.Errorf("writing JSON fixture: %w", err)
		}
		log.Printf("wrote JSON fixture: %s", *jsonOut)
	}

	printStats(ds)
	return nil
}

func readSource(in, source string) ([]byte, error) {
	if in != "" {
		raw, err := os.ReadFile(in)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", in, err)
		}
		return raw, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fetcher := nasa.NewFetcher(source, 30*time.Second, slog.Default())
	raw, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	return raw, nil
}

func writeXML(path string, ds *domain.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := xml.MarshalIndent(buildDocument(ds), "", "    ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(ds *domain.Dataset) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("State vectors: %d\n", len(ds.StateVectors))
	if len(ds.StateVectors) == 0 {
		return
	}
	fmt.Printf("First epoch: %s\n", ds.StateVectors[0].Epoch)
	fmt.Printf("Last epoch:  %s\n", ds.StateVectors[len(ds.StateVectors)-1].Epoch)

	minSpeed, maxSpeed := math.Inf(1), math.Inf(-1)
	minAlt, maxAlt := math.Inf(1), math.Inf(-1)
	for i := range ds.StateVectors {
		sv := ds.StateVectors[i]
		speed, err := domain.Speed(sv)
		if err != nil {
			continue
		}
		loc, err := domain.LocationOf(sv)
		if err != nil {
			continue
		}
		minSpeed = math.Min(minSpeed, speed.Value)
		maxSpeed = math.Max(maxSpeed, speed.Value)
		minAlt = math.Min(minAlt, loc.Altitude.Value)
		maxAlt = math.Max(maxAlt, loc.Altitude.Value)
	}
	fmt.Printf("Speed range: %.4f to %.4f km/s\n", minSpeed, maxSpeed)
	fmt.Printf("Altitude range: %.3f to %.3f km\n", minAlt, maxAlt)

	first := ds.StateVectors[0]
	fmt.Printf("\nFirst state vector:\n")
	fmt.Printf("  Epoch: %s\n", first.Epoch)
	fmt.Printf("  Position: (%g, %g, %g) %s\n", first.Position.X, first.Position.Y, first.Position.Z, first.Position.Units)
	fmt.Printf("  Velocity: (%g, %g, %g) %s\n", first.Velocity.XDot, first.Velocity.YDot, first.Velocity.ZDot, first.Velocity.Units)
	if loc, err := domain.LocationOf(first); err == nil {
		fmt.Printf("  Latitude: %.4f, Longitude: %.4f, Altitude: %.3f km\n", loc.Latitude, loc.Longitude, loc.Altitude.Value)
	}
	if speed, err := domain.Speed(first); err == nil {
		fmt.Printf("  Speed: %.4f km/s\n", speed.Value)
	}
}

// OEM XML output types, mirroring the subset of the wire format the
// service consumes. Block entries marshal in sorted key order; the parser
// does not depend on element order.

type outDocument struct {
	XMLName xml.Name `xml:"ndm"`
	Oem     outOEM   `xml:"oem"`
}

type outOEM struct {
	ID      string   `xml:"id,attr"`
	Version string   `xml:"version,attr"`
	Header  outBlock `xml:"header"`
	Body    outBody  `xml:"body"`
}

type outBody struct {
	Segment outSegment `xml:"segment"`
}

type outSegment struct {
	Metadata outBlock `xml:"metadata"`
	Data     outData  `xml:"data"`
}

type outBlock struct {
	Entries []outEntry
}

type outEntry struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type outData struct {
	Comments     []string         `xml:"COMMENT"`
	StateVectors []outStateVector `xml:"stateVector"`
}

type outStateVector struct {
	Epoch string    `xml:"EPOCH"`
	X     outScalar `xml:"X"`
	Y     outScalar `xml:"Y"`
	Z     outScalar `xml:"Z"`
	XDot  outScalar `xml:"X_DOT"`
	YDot  outScalar `xml:"Y_DOT"`
	ZDot  outScalar `xml:"Z_DOT"`
}

type outScalar struct {
	Units string `xml:"units,attr,omitempty"`
	Value string `xml:",chardata"`
}

func buildDocument(ds *domain.Dataset) outDocument {
	vectors := make([]outStateVector, len(ds.StateVectors))
	for i, sv := range ds.StateVectors {
		vectors[i] = outStateVector{
			Epoch: sv.Epoch,
			X:     scalar(sv.Position.X, sv.Position.Units),
			Y:     scalar(sv.Position.Y, sv.Position.Units),
			Z:     scalar(sv.Position.Z, sv.Position.Units),
			XDot:  scalar(sv.Velocity.XDot, sv.Velocity.Units),
			YDot:  scalar(sv.Velocity.YDot, sv.Velocity.Units),
			ZDot:  scalar(sv.Velocity.ZDot, sv.Velocity.Units),
		}
	}
	return outDocument{
		Oem: outOEM{
			ID:      "CCSDS_OEM_VERS",
			Version: "2.0",
			Header:  outBlock{Entries: blockEntries(ds.Header)},
			Body: outBody{
				Segment: outSegment{
					Metadata: outBlock{Entries: blockEntries(ds.Metadata)},
					Data: outData{
						Comments:     ds.Comments,
						StateVectors: vectors,
					},
				},
			},
		},
	}
}

func blockEntries(b domain.Block) []outEntry {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]outEntry, len(keys))
	for i, k := range keys {
		entries[i] = outEntry{XMLName: xml.Name{Local: k}, Value: b[k]}
	}
	return entries
}

// scalar formats with the shortest representation that round-trips, so
// re-marshaled fixtures parse back to the same values.
func scalar(v float64, units string) outScalar {
	return outScalar{Units: units, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}
