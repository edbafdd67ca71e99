package calibration

import (
	"errors"
	"math"
	"testing"

	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/geo"
)

func pt(x, y, lat, lon float64) Point {
	return Point{Planar: XY{X: x, Y: y}, Geographic: geo.Pos{Lat: lat, Lon: lon}}
}

func TestSelect(t *testing.T) {
	points := []Point{
		pt(100, 100, 45.0, 5.0),
		pt(50, 10, 45.1, 4.95),
		pt(0, 10, 45.1, 4.9),
		pt(120, 300, 44.8, 5.02),
	}
	triple, err := Select(points)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if triple.Top.Planar != (XY{50, 10}) {
		t.Errorf("unexpected top %v", triple.Top.Planar)
	}
	if triple.Left.Planar != (XY{0, 10}) {
		t.Errorf("unexpected left %v", triple.Left.Planar)
	}
	if triple.Bottom.Planar != (XY{120, 300}) {
		t.Errorf("unexpected bottom %v", triple.Bottom.Planar)
	}
}

func TestSelectComparesAgainstTop(t *testing.T) {
	// the second point is the true bottom, but the third is below the top too and replaces it
	points := []Point{
		pt(0, 0, 45, 5),
		pt(10, 500, 44, 5),
		pt(20, 100, 44.9, 5.1),
		pt(-5, 0, 45, 4.9),
	}
	triple, err := Select(points)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if triple.Bottom.Planar != (XY{20, 100}) {
		t.Errorf("expected the last point below the top to be the bottom, got %v", triple.Bottom.Planar)
	}
	if triple.Left.Planar != (XY{-5, 0}) {
		t.Errorf("unexpected left %v", triple.Left.Planar)
	}
}

func TestSelectDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", nil},
		{"identical", []Point{pt(1, 1, 45, 5), pt(1, 1, 45, 5), pt(1, 1, 45, 5)}},
		{"no point level with top", []Point{pt(0, 0, 45, 5), pt(10, 10, 44, 5)}},
		{"no point below top", []Point{pt(10, 0, 45, 5), pt(0, 0, 45, 4)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Select(tc.points); !errors.Is(err, course.ErrDegenerateCalibration) {
				t.Fatalf("expected ErrDegenerateCalibration, got %v", err)
			}
		})
	}
}

func TestAffine(t *testing.T) {
	// lat = 45 - y/10000, lon = 5 + x/10000
	convert := func(x, y float64) geo.Pos { return geo.Pos{Lat: 45 - y/10000, Lon: 5 + x/10000} }
	point := func(x, y float64) Point { return Point{Planar: XY{x, y}, Geographic: convert(x, y)} }

	a, err := NewAffine(Triple{Top: point(500, 0), Left: point(0, 0), Bottom: point(200, 800)})
	if err != nil {
		t.Fatalf("NewAffine failed: %v", err)
	}
	for _, p := range []XY{{0, 0}, {500, 0}, {200, 800}, {1234, 567}, {-10, -20}} {
		got, expected := a.ToGeo(p), convert(p.X, p.Y)
		if math.Abs(got.Lat-expected.Lat) > 1e-9 || math.Abs(got.Lon-expected.Lon) > 1e-9 {
			t.Errorf("ToGeo(%v): expected %v, got %v", p, expected, got)
		}
	}
}

func TestAffineCollinear(t *testing.T) {
	_, err := NewAffine(Triple{Top: pt(0, 0, 45, 5), Left: pt(1, 1, 45, 5), Bottom: pt(2, 2, 45, 5)})
	if !errors.Is(err, course.ErrDegenerateCalibration) {
		t.Fatalf("expected ErrDegenerateCalibration, got %v", err)
	}
}
