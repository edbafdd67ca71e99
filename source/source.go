// Package source reconciles the raw shapes read by the format adapters into controls and legs.
package source

import (
	"fmt"
	"log/slog"

	"github.com/dave/routechoices/calibration"
	"github.com/dave/routechoices/course"
)

// Kind is the export format a Raw value was read from.
type Kind int

const (
	IOFXML3 Kind = iota + 1
	OCADGPX
	TwoDRerun
)

func (k Kind) String() string {
	switch k {
	case IOFXML3:
		return "iof-xml-3"
	case OCADGPX:
		return "ocad-gpx"
	case TwoDRerun:
		return "2d-rerun"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Raw is what a format adapter hands to Reconcile. Which fields are used depends on Kind:
//
//	IOFXML3:   Controls
//	OCADGPX:   Geometries
//	TwoDRerun: Course, Calibration, Routechoices
type Raw struct {
	Kind Kind

	// Controls in course order, before duplicates are removed.
	Controls []course.Control

	// Geometries recorded independently of any leg.
	Geometries []course.Geometry

	// Course is the planar position of each control in course order.
	Course []calibration.XY

	// Calibration pairs used to georeference Course.
	Calibration []calibration.Point

	// Routechoices already measured by the exporting tool, running over the whole course.
	Routechoices []course.Routechoice
}

// Result is a reconciled course.
type Result struct {
	Controls   []course.Control
	Legs       []course.Leg
	Advisories []course.Advisory
}

// Options configures Reconcile.
type Options struct {
	// Legs receive the routechoices of an OCADGPX source. They are copied, never modified.
	Legs []course.Leg

	// Converter georeferences a TwoDRerun course. When nil one is fitted from Raw.Calibration.
	Converter calibration.Converter

	// ControlID, when set, assigns an id to every control of a TwoDRerun course.
	ControlID func() string
}

// Reconcile runs the reconciliation pipeline matching raw.Kind.
func Reconcile(raw Raw, opts Options) (Result, error) {
	var (
		res Result
		err error
	)
	switch raw.Kind {
	case IOFXML3:
		res.Controls = course.DedupeControls(raw.Controls)
		res.Legs = course.BuildLegs(res.Controls)
	case OCADGPX:
		res.Legs, res.Advisories, err = reconcileGeometries(raw, opts)
	case TwoDRerun:
		res, err = reconcileRerun(raw, opts)
	default:
		return Result{}, fmt.Errorf("reconciling: unknown source kind %v", raw.Kind)
	}
	if err != nil {
		return Result{}, err
	}

	for _, a := range res.Advisories {
		slog.Warn("routechoice far from its leg",
			"source", raw.Kind,
			"routechoice", a.Routechoice,
			"leg", res.Legs[a.Leg].String(),
			"distance", a.Distance,
		)
	}
	return res, nil
}

func reconcileGeometries(raw Raw, opts Options) ([]course.Leg, []course.Advisory, error) {
	if len(opts.Legs) == 0 {
		return []course.Leg{}, nil, nil
	}
	routechoices, err := course.ExtractRoutechoices(raw.Geometries)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting routechoices: %w", err)
	}
	legs, advisories := course.AttributeByEndpoints(opts.Legs, routechoices)
	return legs, advisories, nil
}

func reconcileRerun(raw Raw, opts Options) (Result, error) {
	converter := opts.Converter
	if converter == nil {
		triple, err := calibration.Select(raw.Calibration)
		if err != nil {
			return Result{}, fmt.Errorf("selecting calibration points: %w", err)
		}
		affine, err := calibration.NewAffine(triple)
		if err != nil {
			return Result{}, fmt.Errorf("fitting calibration: %w", err)
		}
		converter = affine
	}

	controls := make([]course.Control, len(raw.Course))
	for i, xy := range raw.Course {
		code := fmt.Sprint(i)
		if i == 0 {
			code = "start"
		}
		if i == len(raw.Course)-1 {
			code = "finish"
		}
		pos := converter.ToGeo(xy)
		controls[i] = course.Control{Code: code, Lat: pos.Lat, Lon: pos.Lon}
		if opts.ControlID != nil {
			controls[i].ID = opts.ControlID()
		}
	}

	legs := course.BuildLegs(controls)
	if len(legs) == 0 && len(raw.Routechoices) > 0 {
		slog.Warn("no legs to attribute routechoices to", "source", raw.Kind, "routechoices", len(raw.Routechoices))
	}
	legs, advisories := course.AttributeByStart(legs, raw.Routechoices)
	return Result{Controls: controls, Legs: legs, Advisories: advisories}, nil
}
