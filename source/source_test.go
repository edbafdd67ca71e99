package source

import (
	"testing"

	"github.com/dave/routechoices/calibration"
	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/geo"
)

// 1 unit = 0.001 degrees, y grows south
type grid struct{}

func (grid) ToGeo(xy calibration.XY) geo.Pos {
	return geo.Pos{Lat: 45 - xy.Y/1000, Lon: 5 + xy.X/1000}
}

func TestReconcileIOFXML3(t *testing.T) {
	res, err := Reconcile(Raw{
		Kind: IOFXML3,
		Controls: []course.Control{
			{Code: "S1", Lat: 45, Lon: 5},
			{Code: "31", Lat: 45, Lon: 5},
			{Code: "32", Lat: 45.01, Lon: 5},
		},
	}, Options{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Controls) != 2 || len(res.Legs) != 1 || res.Legs[0].String() != "S1-32" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestReconcileOCADGPX(t *testing.T) {
	legs := course.BuildLegs([]course.Control{
		{Code: "S1", Lat: 45, Lon: 5},
		{Code: "31", Lat: 45.01, Lon: 5},
	})
	raw := Raw{
		Kind: OCADGPX,
		Geometries: []course.Geometry{
			{Kind: course.RouteGeometry, Samples: []course.Sample{
				{Pos: geo.Pos{Lat: 45.02, Lon: 5}},
				{Pos: geo.Pos{Lat: 45.01, Lon: 5}},
			}},
		},
	}
	res, err := Reconcile(raw, Options{Legs: legs})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Legs[0].Routechoices) != 1 {
		t.Fatalf("expected the routechoice on the only leg")
	}
	if len(res.Advisories) != 1 || res.Advisories[0].Leg != 0 {
		t.Fatalf("expected one advisory, got %v", res.Advisories)
	}

	res, err = Reconcile(raw, Options{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.Legs == nil || len(res.Legs) != 0 {
		t.Fatalf("expected an empty leg list, got %v", res.Legs)
	}
}

func TestReconcileTwoDRerun(t *testing.T) {
	var n int
	res, err := Reconcile(Raw{
		Kind:   TwoDRerun,
		Course: []calibration.XY{{X: 0, Y: 0}, {X: 0, Y: -10}, {X: 10, Y: -10}},
		Routechoices: []course.Routechoice{
			{Track: course.Track{{Lat: 45.01, Lon: 5}, {Lat: 45.01, Lon: 5.01}}, Length: 800},
		},
	}, Options{
		Converter: grid{},
		ControlID: func() string { n++; return string(rune('a' + n - 1)) },
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	codes := []string{"start", "1", "finish"}
	for i, c := range res.Controls {
		if c.Code != codes[i] || c.ID != string(rune('a'+i)) {
			t.Errorf("control %d: unexpected %+v", i, c)
		}
	}
	if d := res.Controls[1].Pos().Distance(geo.Pos{Lat: 45.01, Lon: 5}); d > 0.001 {
		t.Errorf("unexpected position %v", res.Controls[1].Pos())
	}
	if len(res.Legs) != 2 || len(res.Legs[1].Routechoices) != 1 || len(res.Advisories) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestReconcileUnknownKind(t *testing.T) {
	if _, err := Reconcile(Raw{}, Options{}); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}
