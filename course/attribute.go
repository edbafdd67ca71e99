package course

import (
	"fmt"
)

// AdvisoryDistance is the distance in meters between a routechoice's first point and a control
// above which the attribution is reported as suspicious.
const AdvisoryDistance = 500

// Advisory reports a routechoice whose first point is implausibly far from the controls it was
// matched against. It never changes the attribution.
type Advisory struct {
	Routechoice int     // index in the routechoice input
	Leg         int     // leg the routechoice was attributed to
	Distance    float64 // meters
}

func (a Advisory) String() string {
	return fmt.Sprintf("routechoice %d first point is %.0fm away from a control (attributed to leg %d)", a.Routechoice, a.Distance, a.Leg)
}

// AttributeByEndpoints attributes each routechoice to the leg minimising the sum of the distance
// from its first point to the leg start and from its last point to the leg finish. Ties go to the
// earliest leg. The distance from the first point to the start of the first leg is the one
// checked against AdvisoryDistance, whichever leg wins.
//
// legs is not modified; the returned legs are a deep copy with the routechoices appended.
func AttributeByEndpoints(legs []Leg, routechoices []Routechoice) ([]Leg, []Advisory) {
	out := CloneLegs(legs)
	if len(out) == 0 {
		return out, nil
	}

	var advisories []Advisory
	for i, rc := range routechoices {
		if len(rc.Track) == 0 {
			continue
		}
		first, last := rc.Track.Line().Start(), rc.Track.Line().End()

		best := 0
		bestScore := first.Distance(out[0].Start()) + last.Distance(out[0].Finish())
		for j := 1; j < len(out); j++ {
			score := first.Distance(out[j].Start()) + last.Distance(out[j].Finish())
			if score < bestScore {
				best, bestScore = j, score
			}
		}

		if d := first.Distance(out[0].Start()); d > AdvisoryDistance {
			advisories = append(advisories, Advisory{Routechoice: i, Leg: best, Distance: d})
		}
		out[best].Routechoices = append(out[best].Routechoices, rc.Clone())
	}
	return out, advisories
}

// AttributeByStart attributes each routechoice to the leg whose start is nearest to its first
// point, ties going to the earliest leg. The chosen distance is checked against AdvisoryDistance.
//
// legs is not modified; the returned legs are a deep copy with the routechoices appended.
func AttributeByStart(legs []Leg, routechoices []Routechoice) ([]Leg, []Advisory) {
	out := CloneLegs(legs)
	if len(out) == 0 {
		return out, nil
	}

	var advisories []Advisory
	for i, rc := range routechoices {
		if len(rc.Track) == 0 {
			continue
		}
		first := rc.Track.Line().Start()

		best := 0
		bestDistance := first.Distance(out[0].Start())
		for j := 1; j < len(out); j++ {
			if d := first.Distance(out[j].Start()); d < bestDistance {
				best, bestDistance = j, d
			}
		}

		if bestDistance > AdvisoryDistance {
			advisories = append(advisories, Advisory{Routechoice: i, Leg: best, Distance: bestDistance})
		}
		out[best].Routechoices = append(out[best].Routechoices, rc.Clone())
	}
	return out, advisories
}
