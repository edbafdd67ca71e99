// Package ocadgpx reads the routechoices OCAD course setting exports as GPX tracks and routes,
// and attributes them to the legs of a course.
package ocadgpx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/document"
	"github.com/dave/routechoices/elevation"
	"github.com/dave/routechoices/geo"
	"github.com/dave/routechoices/source"
)

// Elevations supplies elevation for samples recorded without one. *elevation.Lookup implements it.
// Positions without data return elevation.ErrNoData or NaN and leave the sample without elevation.
type Elevations interface {
	Elevation(pos geo.Pos) (float64, error)
}

type options struct {
	elevations Elevations
}

type Option func(*options)

// WithElevations fills samples lacking an <ele> element from e.
func WithElevations(e Elevations) Option {
	return func(o *options) {
		o.elevations = e
	}
}

// ParseRoutechoicesOntoLegs attributes every distinct track and route of doc to the leg whose
// start and finish best match its endpoints. It returns new legs; legs itself is not modified.
func ParseRoutechoicesOntoLegs(doc document.Node, legs []course.Leg, opts ...Option) ([]course.Leg, error) {
	if len(legs) == 0 {
		return []course.Leg{}, nil
	}
	raw, err := Extract(doc, opts...)
	if err != nil {
		return nil, err
	}
	res, err := source.Reconcile(raw, source.Options{Legs: legs})
	if err != nil {
		return nil, err
	}
	return res.Legs, nil
}

// Extract reads every track and route of doc, tracks first.
func Extract(doc document.Node, opts ...Option) (source.Raw, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if _, ok := doc.Find("gpx"); !ok {
		return source.Raw{}, fmt.Errorf("%w: no gpx element", course.ErrInvalidFormat)
	}

	tracks, err := geometries(doc, course.TrackGeometry, o)
	if err != nil {
		return source.Raw{}, err
	}
	routes, err := geometries(doc, course.RouteGeometry, o)
	if err != nil {
		return source.Raw{}, err
	}

	return source.Raw{Kind: source.OCADGPX, Geometries: append(tracks, routes...)}, nil
}

func geometries(doc document.Node, kind course.GeometryKind, o options) ([]course.Geometry, error) {
	element, point := "trk", "trkpt"
	if kind == course.RouteGeometry {
		element, point = "rte", "rtept"
	}

	var out []course.Geometry
	for i, n := range doc.FindAll(element) {
		g := course.Geometry{Kind: kind}
		for j, pt := range n.FindAll(point) {
			s, err := sample(pt, o)
			if err != nil {
				return nil, fmt.Errorf("%s %d point %d: %w", kind, i, j, err)
			}
			g.Samples = append(g.Samples, s)
		}
		out = append(out, g)
	}
	return out, nil
}

func sample(pt document.Node, o options) (course.Sample, error) {
	latString, hasLat := pt.Attr("lat")
	lonString, hasLon := pt.Attr("lon")
	if !hasLat || !hasLon {
		return course.Sample{}, fmt.Errorf("%w: no latitude or longitude", course.ErrInvalidPoint)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latString), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return course.Sample{}, fmt.Errorf("%w: latitude %q is not a number", course.ErrInvalidPoint, latString)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonString), 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return course.Sample{}, fmt.Errorf("%w: longitude %q is not a number", course.ErrInvalidPoint, lonString)
	}

	s := course.Sample{Pos: geo.Pos{Lat: lat, Lon: lon}, Elevation: recordedElevation(pt)}
	if s.Elevation == nil && o.elevations != nil {
		ele, err := o.elevations.Elevation(s.Pos)
		switch {
		case errors.Is(err, elevation.ErrNoData):
		case err != nil:
			return course.Sample{}, err
		case !math.IsNaN(ele) && !math.IsInf(ele, 0):
			s.Elevation = &ele
		}
	}
	return s, nil
}

// recordedElevation reads the <ele> child. Missing or unreadable values give nil.
func recordedElevation(pt document.Node) *float64 {
	ele := pt.Children("ele")
	if len(ele) == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(ele[0].Text()), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
