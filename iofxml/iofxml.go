// Package iofxml reads course definitions from IOF XML 3.0 CourseData exports.
package iofxml

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/document"
	"github.com/dave/routechoices/source"
)

const Version = "3.0"

// ParseCourse returns the deduplicated controls and the legs of the course at courseIndex
// (zero-based, in document order).
func ParseCourse(doc document.Node, courseIndex int) ([]course.Control, []course.Leg, error) {
	raw, err := Extract(doc, courseIndex)
	if err != nil {
		return nil, nil, err
	}
	res, err := source.Reconcile(raw, source.Options{})
	if err != nil {
		return nil, nil, err
	}
	return res.Controls, res.Legs, nil
}

// Extract resolves the controls of one course against the control table, in course order and
// without removing duplicates.
func Extract(doc document.Node, courseIndex int) (source.Raw, error) {
	if err := checkVersion(doc); err != nil {
		return source.Raw{}, err
	}

	positions, err := controlTable(doc)
	if err != nil {
		return source.Raw{}, err
	}

	courses := doc.FindAll("course")
	if courseIndex < 0 || courseIndex >= len(courses) {
		return source.Raw{}, fmt.Errorf("%w: no course at index %d (%d courses)", course.ErrInvalidFormat, courseIndex, len(courses))
	}

	var controls []course.Control
	for i, cc := range courses[courseIndex].FindAll("coursecontrol") {
		ref, ok := cc.Find("control")
		if !ok {
			return source.Raw{}, fmt.Errorf("%w: course control %d has no control reference", course.ErrMissingControl, i)
		}
		code := strings.TrimSpace(ref.Text())
		if code == "" {
			return source.Raw{}, fmt.Errorf("%w: course control %d has an empty control reference", course.ErrMissingControl, i)
		}
		pos, ok := positions[code]
		if !ok {
			return source.Raw{}, fmt.Errorf("%w: control %q is not in the control list", course.ErrMissingControl, code)
		}
		controls = append(controls, course.Control{Code: code, Lat: pos.Lat, Lon: pos.Lon})
	}

	return source.Raw{Kind: source.IOFXML3, Controls: controls}, nil
}

// Courses lists the course names in document order. The position in the list is the index
// ParseCourse expects.
func Courses(doc document.Node) ([]string, error) {
	if err := checkVersion(doc); err != nil {
		return nil, err
	}
	var names []string
	for i, c := range doc.FindAll("course") {
		name := fmt.Sprintf("course %d", i)
		if n := c.Children("name"); len(n) > 0 {
			name = strings.TrimSpace(n[0].Text())
		}
		names = append(names, name)
	}
	return names, nil
}

func checkVersion(doc document.Node) error {
	root, ok := doc.Find("coursedata")
	if !ok {
		return fmt.Errorf("%w: no CourseData element, not an IOF XML 3 course file", course.ErrInvalidFormat)
	}
	if v, _ := root.Attr("iofVersion"); v != Version {
		return fmt.Errorf("%w: iofVersion %q, expected %q", course.ErrInvalidFormat, v, Version)
	}
	return nil
}

type position struct {
	Lat, Lon float64
}

// controlTable maps control ids to positions from the Control children of RaceCourseData.
func controlTable(doc document.Node) (map[string]position, error) {
	data, ok := doc.Find("racecoursedata")
	if !ok {
		return nil, fmt.Errorf("%w: no RaceCourseData element", course.ErrInvalidFormat)
	}

	positions := map[string]position{}
	for i, control := range data.Children("control") {
		idTag, ok := control.Find("id")
		if !ok {
			return nil, fmt.Errorf("%w: control %d has no id", course.ErrInvalidFormat, i)
		}
		id := strings.TrimSpace(idTag.Text())

		pos, ok := control.Find("position")
		if !ok {
			return nil, fmt.Errorf("%w: control %q has no position", course.ErrMissingCoordinates, id)
		}
		latString, hasLat := pos.Attr("lat")
		lonString, hasLon := pos.Attr("lng")
		if !hasLat || !hasLon {
			return nil, fmt.Errorf("%w: control %q has no latitude or longitude", course.ErrMissingCoordinates, id)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latString), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: control %q latitude %q: %v", course.ErrInvalidPoint, id, latString, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonString), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: control %q longitude %q: %v", course.ErrInvalidPoint, id, lonString, err)
		}
		if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
			return nil, fmt.Errorf("%w: control %q position is not finite", course.ErrInvalidPoint, id)
		}
		positions[id] = position{Lat: lat, Lon: lon}
	}
	return positions, nil
}
