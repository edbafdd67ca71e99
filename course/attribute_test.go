package course

import (
	"testing"

	"github.com/dave/routechoices/geo"
)

// four legs on a zig-zag course, each control ~1.1km from the previous one
func testLegs() []Leg {
	return BuildLegs([]Control{
		{Code: "S", Lat: 45.00, Lon: 5.00},
		{Code: "31", Lat: 45.01, Lon: 5.00},
		{Code: "32", Lat: 45.01, Lon: 5.014},
		{Code: "33", Lat: 45.02, Lon: 5.014},
		{Code: "F", Lat: 45.02, Lon: 5.028},
	})
}

func between(start, finish geo.Pos) Routechoice {
	mid := geo.Pos{Lat: (start.Lat + finish.Lat) / 2, Lon: (start.Lon+finish.Lon)/2 + 0.001}
	track := Track{start, mid, finish}
	return Routechoice{Track: track, Length: geo.Line(track).Length()}
}

func TestAttributeByEndpoints(t *testing.T) {
	legs := testLegs()
	rc := between(legs[2].Start(), legs[2].Finish())

	out, _ := AttributeByEndpoints(legs, []Routechoice{rc})
	if len(out) != len(legs) {
		t.Fatalf("expected %d legs, got %d", len(legs), len(out))
	}
	for i, leg := range out {
		expected := 0
		if i == 2 {
			expected = 1
		}
		if len(leg.Routechoices) != expected {
			t.Errorf("leg %d: expected %d routechoices, got %d", i, expected, len(leg.Routechoices))
		}
	}

	// same answer every time
	for i := 0; i < 5; i++ {
		again, _ := AttributeByEndpoints(legs, []Routechoice{rc})
		if len(again[2].Routechoices) != 1 {
			t.Fatalf("run %d: routechoice moved away from leg 2", i)
		}
	}
}

func TestAttributeByStart(t *testing.T) {
	legs := testLegs()
	rc := between(legs[2].Start(), legs[2].Finish())

	out, advisories := AttributeByStart(legs, []Routechoice{rc})
	if len(out[2].Routechoices) != 1 {
		t.Fatalf("expected routechoice on leg 2, got %v", out)
	}
	if len(advisories) != 0 {
		t.Fatalf("expected no advisories, got %v", advisories)
	}
}

func TestAttributeDoesNotMutateInput(t *testing.T) {
	legs := testLegs()
	legs[0].Routechoices = append(legs[0].Routechoices, between(legs[0].Start(), legs[0].Finish()))
	rc := between(legs[0].Start(), legs[0].Finish())

	for name, attribute := range map[string]func([]Leg, []Routechoice) ([]Leg, []Advisory){
		"endpoints": AttributeByEndpoints,
		"start":     AttributeByStart,
	} {
		out, _ := attribute(legs, []Routechoice{rc})
		if len(legs[0].Routechoices) != 1 {
			t.Fatalf("%s: input leg was modified: %d routechoices", name, len(legs[0].Routechoices))
		}
		if len(out[0].Routechoices) != 2 {
			t.Fatalf("%s: expected existing routechoice to be kept and a new one appended, got %d", name, len(out[0].Routechoices))
		}
		out[0].Routechoices[0].Track[0] = geo.Pos{}
		if legs[0].Routechoices[0].Track[0] == (geo.Pos{}) {
			t.Fatalf("%s: output shares track memory with input", name)
		}
	}
}

func TestAttributeTieGoesToFirstLeg(t *testing.T) {
	a := Control{Code: "A", Lat: 45, Lon: 5}
	b := Control{Code: "B", Lat: 45.01, Lon: 5}
	legs := BuildLegs([]Control{a, b, a, b})
	rc := between(a.Pos(), b.Pos())

	out, _ := AttributeByEndpoints(legs, []Routechoice{rc})
	if len(out[0].Routechoices) != 1 || len(out[2].Routechoices) != 0 {
		t.Fatalf("endpoints: expected tie to go to leg 0")
	}
	out, _ = AttributeByStart(legs, []Routechoice{rc})
	if len(out[0].Routechoices) != 1 || len(out[2].Routechoices) != 0 {
		t.Fatalf("start: expected tie to go to leg 0")
	}
}

func TestAttributeAppendsInEncounterOrder(t *testing.T) {
	legs := testLegs()
	first := between(legs[1].Start(), legs[1].Finish())
	second := first
	second.Length = first.Length + 1

	out, _ := AttributeByEndpoints(legs, []Routechoice{first, second})
	if len(out[1].Routechoices) != 2 {
		t.Fatalf("expected 2 routechoices on leg 1, got %d", len(out[1].Routechoices))
	}
	if out[1].Routechoices[0].Length != first.Length || out[1].Routechoices[1].Length != second.Length {
		t.Fatalf("routechoices not appended in encounter order")
	}
}

func TestAttributeAdvisories(t *testing.T) {
	legs := testLegs()

	// far from every control: both policies report it
	far := between(geo.Pos{Lat: 46, Lon: 6}, geo.Pos{Lat: 46.01, Lon: 6})
	_, advisories := AttributeByEndpoints(legs, []Routechoice{far})
	if len(advisories) != 1 || advisories[0].Routechoice != 0 {
		t.Fatalf("endpoints: expected one advisory, got %v", advisories)
	}
	_, advisories = AttributeByStart(legs, []Routechoice{far})
	if len(advisories) != 1 || advisories[0].Distance <= AdvisoryDistance {
		t.Fatalf("start: expected one advisory, got %v", advisories)
	}

	// a perfect match on leg 3 is still reported by the endpoint policy because the check
	// measures against the start of the first leg
	exact := between(legs[3].Start(), legs[3].Finish())
	out, advisories := AttributeByEndpoints(legs, []Routechoice{exact})
	if len(out[3].Routechoices) != 1 {
		t.Fatalf("expected routechoice on leg 3")
	}
	if len(advisories) != 1 || advisories[0].Leg != 3 {
		t.Fatalf("endpoints: expected one advisory for leg 3, got %v", advisories)
	}
	_, advisories = AttributeByStart(legs, []Routechoice{exact})
	if len(advisories) != 0 {
		t.Fatalf("start: expected no advisory, got %v", advisories)
	}

	// a routechoice starting at the first control raises nothing
	near := between(legs[0].Start(), legs[0].Finish())
	if _, advisories := AttributeByEndpoints(legs, []Routechoice{near}); len(advisories) != 0 {
		t.Fatalf("endpoints: expected no advisory, got %v", advisories)
	}
}

func TestAttributeNoLegs(t *testing.T) {
	rc := between(geo.Pos{Lat: 45, Lon: 5}, geo.Pos{Lat: 45.01, Lon: 5})
	out, advisories := AttributeByEndpoints(nil, []Routechoice{rc})
	if len(out) != 0 || len(advisories) != 0 {
		t.Fatalf("expected nothing, got %v %v", out, advisories)
	}
	out, advisories = AttributeByStart([]Leg{}, []Routechoice{rc})
	if len(out) != 0 || len(advisories) != 0 {
		t.Fatalf("expected nothing, got %v %v", out, advisories)
	}
}
