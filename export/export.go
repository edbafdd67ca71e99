// Package export writes a parsed course as JSON, KML or GeoJSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/kml"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type Format string

const (
	JSON    Format = "json"
	KML     Format = "kml"
	GeoJSON Format = "geojson"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JSON, KML, GeoJSON:
		return f, nil
	case "":
		return JSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Course is the JSON shape of a parsed course.
type Course struct {
	Name     string           `json:"name,omitempty"`
	Controls []course.Control `json:"controls"`
	Legs     []course.Leg     `json:"legs"`
}

// Write encodes the course to w in the given format.
func Write(w io.Writer, format Format, name string, controls []course.Control, legs []course.Leg) error {
	if controls == nil {
		controls = []course.Control{}
	}
	if legs == nil {
		legs = []course.Leg{}
	}
	switch format {
	case JSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Course{Name: name, Controls: controls, Legs: legs}); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case KML:
		return kml.FromCourse(name, controls, legs).Encode(w)
	case GeoJSON:
		b, err := FeatureCollection(controls, legs).MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding geojson: %w", err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("writing geojson: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// FeatureCollection has one Point feature per control followed by one LineString feature per
// routechoice, in leg order.
func FeatureCollection(controls []course.Control, legs []course.Leg) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, c := range controls {
		f := geojson.NewFeature(orb.Point{c.Lon, c.Lat})
		f.Properties["kind"] = "control"
		f.Properties["index"] = i
		f.Properties["code"] = c.Code
		if c.ID != "" {
			f.Properties["id"] = c.ID
		}
		fc.Append(f)
	}
	for i, leg := range legs {
		for j, rc := range leg.Routechoices {
			ls := make(orb.LineString, len(rc.Track))
			for k, p := range rc.Track {
				ls[k] = orb.Point{p.Lon, p.Lat}
			}
			f := geojson.NewFeature(ls)
			f.Properties["kind"] = "routechoice"
			f.Properties["leg"] = i
			f.Properties["index"] = j
			f.Properties["start"] = leg.StartControlCode
			f.Properties["finish"] = leg.FinishControlCode
			f.Properties["length"] = rc.Length
			if rc.Elevation != nil {
				f.Properties["elevation"] = *rc.Elevation
			}
			fc.Append(f)
		}
	}
	return fc
}
