// Package rerun reads 2D Rerun course and routechoice exports. The map is not georeferenced in
// the export, so the course is placed by calibrating against the tags, which carry both map and
// GPS positions for every point.
package rerun

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/dave/routechoices/calibration"
	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/geo"
	"github.com/dave/routechoices/source"
	"github.com/google/uuid"
)

// ParseTagsExport georeferences the course, names its controls "start", "1", "2", ..., "finish"
// and attributes each tag to the leg whose start is nearest to the tag's first point.
func ParseTagsExport(exp *Export) ([]course.Control, []course.Leg, error) {
	raw, err := Extract(exp)
	if err != nil {
		return nil, nil, err
	}
	res, err := source.Reconcile(raw, source.Options{ControlID: uuid.NewString})
	if err != nil {
		return nil, nil, err
	}
	return res.Controls, res.Legs, nil
}

// BuildCalibrationFromTagsExport selects the calibration basis from every tag point.
func BuildCalibrationFromTagsExport(exp *Export) (calibration.Triple, error) {
	points, err := calibrationPoints(exp)
	if err != nil {
		return calibration.Triple{}, err
	}
	return calibration.Select(points)
}

// Extract reads the planar course, the calibration pairs and the routechoices of exp.
func Extract(exp *Export) (source.Raw, error) {
	if exp == nil {
		return source.Raw{}, fmt.Errorf("%w: no export", course.ErrSchemaViolation)
	}

	points, err := calibrationPoints(exp)
	if err != nil {
		return source.Raw{}, err
	}

	coords := make([]calibration.XY, len(exp.CourseCoords))
	for i, c := range exp.CourseCoords {
		x, y, err := pair(c)
		if err != nil {
			return source.Raw{}, fmt.Errorf("course coordinate %d: %w", i, err)
		}
		coords[i] = calibration.XY{X: x, Y: y}
	}

	var routechoices []course.Routechoice
	for i, tag := range exp.Tags {
		if len(tag.Points) == 0 {
			slog.Debug("skipping tag without points", "tag", i, "name", tag.Name)
			continue
		}
		rc := course.Routechoice{Length: tag.Length, Track: make(course.Track, len(tag.Points))}
		for j, p := range tag.Points {
			lat, lon, err := pair(p)
			if err != nil {
				return source.Raw{}, fmt.Errorf("tag %d point %d: %w", i, j, err)
			}
			rc.Track[j] = geo.Pos{Lat: lat, Lon: lon}
		}
		routechoices = append(routechoices, rc)
	}

	return source.Raw{
		Kind:         source.TwoDRerun,
		Course:       coords,
		Calibration:  points,
		Routechoices: routechoices,
	}, nil
}

func calibrationPoints(exp *Export) ([]calibration.Point, error) {
	var points []calibration.Point
	for i, tag := range exp.Tags {
		if len(tag.PointsXY) < len(tag.Points) {
			return nil, fmt.Errorf("%w: tag %d has %d points but %d map positions", course.ErrInvalidPoint, i, len(tag.Points), len(tag.PointsXY))
		}
		for j, p := range tag.Points {
			lat, lon, err := pair(p)
			if err != nil {
				return nil, fmt.Errorf("tag %d point %d: %w", i, j, err)
			}
			x, y, err := pair(tag.PointsXY[j])
			if err != nil {
				return nil, fmt.Errorf("tag %d map position %d: %w", i, j, err)
			}
			points = append(points, calibration.Point{
				Planar:     calibration.XY{X: x, Y: y},
				Geographic: geo.Pos{Lat: lat, Lon: lon},
			})
		}
	}
	return points, nil
}

// pair parses "a,b". Anything after a second comma is ignored.
func pair(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q is not a coordinate pair", course.ErrInvalidPoint, s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a number", course.ErrInvalidPoint, parts[0])
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a number", course.ErrInvalidPoint, parts[1])
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return 0, 0, fmt.Errorf("%w: %q is not finite", course.ErrInvalidPoint, s)
	}
	return a, b, nil
}
