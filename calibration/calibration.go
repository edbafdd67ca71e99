// Package calibration converts planar map coordinates to geographic ones from three
// planar/geographic point pairs.
package calibration

import (
	"fmt"

	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/geo"
)

// XY is a planar map position. Y grows downwards, as in image coordinates.
type XY struct {
	X, Y float64
}

// Point pairs a planar position with its geographic position.
type Point struct {
	Planar     XY
	Geographic geo.Pos
}

// Triple is the basis used to build an Affine converter.
type Triple struct {
	Top, Left, Bottom Point
}

func (t Triple) Points() [3]Point {
	return [3]Point{t.Top, t.Left, t.Bottom}
}

// Select picks the top, left and bottom points of a calibration set in a single pass.
//
// A point with a smaller y than the current top becomes the top. Otherwise a point with a larger
// y than the current top becomes the bottom, and a point level with the top but further left
// becomes the left. Bottom and left are compared against the top, not against the running bottom
// and left, so they are not necessarily the true extremes. Downstream calibrations depend on
// these exact picks.
func Select(points []Point) (Triple, error) {
	if len(points) == 0 {
		return Triple{}, fmt.Errorf("%w: no calibration points", course.ErrDegenerateCalibration)
	}

	top, left, bottom := points[0], points[0], points[0]
	for _, p := range points[1:] {
		switch {
		case p.Planar.Y < top.Planar.Y:
			top = p
		case p.Planar.Y > top.Planar.Y:
			bottom = p
		case p.Planar.X < top.Planar.X:
			left = p
		}
	}

	if top.Planar == bottom.Planar {
		return Triple{}, fmt.Errorf("%w: top and bottom are the same point", course.ErrDegenerateCalibration)
	}
	if top.Planar == left.Planar {
		return Triple{}, fmt.Errorf("%w: top and left are the same point", course.ErrDegenerateCalibration)
	}
	if left.Planar == bottom.Planar {
		return Triple{}, fmt.Errorf("%w: left and bottom are the same point", course.ErrDegenerateCalibration)
	}

	return Triple{Top: top, Left: left, Bottom: bottom}, nil
}

// Converter turns planar map positions into geographic ones.
type Converter interface {
	ToGeo(p XY) geo.Pos
}

// Affine maps planar positions to latitude and longitude with two plane equations
// lat = a·x + b·y + c and lon = d·x + e·y + f fitted exactly through the three basis points.
type Affine struct {
	lat, lon [3]float64
}

// NewAffine fits the transform. Collinear basis points have no unique solution and fail with
// course.ErrDegenerateCalibration.
func NewAffine(t Triple) (*Affine, error) {
	pts := t.Points()

	det := determinant(pts)
	if det == 0 {
		return nil, fmt.Errorf("%w: calibration points are collinear", course.ErrDegenerateCalibration)
	}

	var lat, lon [3]float64
	for i, p := range pts {
		lat[i] = p.Geographic.Lat
		lon[i] = p.Geographic.Lon
	}

	return &Affine{
		lat: solve(pts, lat, det),
		lon: solve(pts, lon, det),
	}, nil
}

func (a *Affine) ToGeo(p XY) geo.Pos {
	return geo.Pos{
		Lat: a.lat[0]*p.X + a.lat[1]*p.Y + a.lat[2],
		Lon: a.lon[0]*p.X + a.lon[1]*p.Y + a.lon[2],
	}
}

// determinant of the rows [x y 1]
func determinant(pts [3]Point) float64 {
	return det3([3][3]float64{
		{pts[0].Planar.X, pts[0].Planar.Y, 1},
		{pts[1].Planar.X, pts[1].Planar.Y, 1},
		{pts[2].Planar.X, pts[2].Planar.Y, 1},
	})
}

// solve uses Cramer's rule for the coefficients of v = c0·x + c1·y + c2.
func solve(pts [3]Point, v [3]float64, det float64) [3]float64 {
	var coefficients [3]float64
	for col := 0; col < 3; col++ {
		var m [3][3]float64
		for row, p := range pts {
			m[row] = [3]float64{p.Planar.X, p.Planar.Y, 1}
			m[row][col] = v[row]
		}
		coefficients[col] = det3(m) / det
	}
	return coefficients
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
