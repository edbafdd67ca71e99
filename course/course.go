// Package course holds the canonical orienteering model (controls, legs and routechoices) and the
// geometric reconciliation that builds it from the raw shapes the format adapters produce.
package course

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dave/routechoices/geo"
)

// Control is a point a competitor must visit. Code is the format-native identifier.
type Control struct {
	ID   string  `json:"id,omitempty"`
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (c Control) Pos() geo.Pos {
	return geo.Pos{Lat: c.Lat, Lon: c.Lon}
}

// Leg is the directed segment between two consecutive controls.
type Leg struct {
	StartControlCode  string        `json:"startControlCode"`
	FinishControlCode string        `json:"finishControlCode"`
	StartLat          float64       `json:"startLat"`
	StartLon          float64       `json:"startLon"`
	FinishLat         float64       `json:"finishLat"`
	FinishLon         float64       `json:"finishLon"`
	Routechoices      []Routechoice `json:"routechoices"`
}

func (l Leg) Start() geo.Pos {
	return geo.Pos{Lat: l.StartLat, Lon: l.StartLon}
}

func (l Leg) Finish() geo.Pos {
	return geo.Pos{Lat: l.FinishLat, Lon: l.FinishLon}
}

func (l Leg) String() string {
	return fmt.Sprintf("%s-%s", l.StartControlCode, l.FinishControlCode)
}

// Clone returns a copy of the leg sharing no memory with the original.
func (l Leg) Clone() Leg {
	out := l
	out.Routechoices = make([]Routechoice, len(l.Routechoices))
	for i, rc := range l.Routechoices {
		out.Routechoices[i] = rc.Clone()
	}
	return out
}

// CloneLegs deep copies a leg list.
func CloneLegs(legs []Leg) []Leg {
	out := make([]Leg, len(legs))
	for i, leg := range legs {
		out[i] = leg.Clone()
	}
	return out
}

// Routechoice is a path taken between the two controls of a leg. Length and Elevation are in
// meters; Elevation is nil when the source carried no elevation at all.
type Routechoice struct {
	Track     Track    `json:"track"`
	Length    float64  `json:"length"`
	Elevation *float64 `json:"elevation"`
}

func (rc Routechoice) Clone() Routechoice {
	out := rc
	out.Track = slices.Clone(rc.Track)
	if rc.Elevation != nil {
		e := *rc.Elevation
		out.Elevation = &e
	}
	return out
}

// Track is an ordered list of positions. It encodes to JSON as [[lat, lon], ...].
type Track geo.Line

func (t Track) Line() geo.Line {
	return geo.Line(t)
}

func (t Track) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(t))
	for i, p := range t {
		pairs[i] = [2]float64{p.Lat, p.Lon}
	}
	return json.Marshal(pairs)
}

func (t *Track) UnmarshalJSON(b []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(b, &pairs); err != nil {
		return fmt.Errorf("decoding track: %w", err)
	}
	*t = make(Track, len(pairs))
	for i, p := range pairs {
		(*t)[i] = geo.Pos{Lat: p[0], Lon: p[1]}
	}
	return nil
}

// Sample is one raw geometry point with an optional elevation.
type Sample struct {
	geo.Pos
	Elevation *float64
}

// GeometryKind is the element a raw geometry was read from. Tracks take precedence over routes
// when duplicates are removed.
type GeometryKind int

const (
	TrackGeometry GeometryKind = iota
	RouteGeometry
)

func (k GeometryKind) String() string {
	switch k {
	case TrackGeometry:
		return "track"
	case RouteGeometry:
		return "route"
	default:
		return fmt.Sprintf("GeometryKind(%d)", int(k))
	}
}

// Geometry is a raw recorded track or route.
type Geometry struct {
	Kind    GeometryKind
	Samples []Sample
}
