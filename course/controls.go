package course

import (
	"log/slog"
)

// DuplicateControlDistance is the distance in meters under which a control is considered a
// copy of the one before it.
const DuplicateControlDistance = 20

// DedupeControls drops every control lying within DuplicateControlDistance of the control
// directly before it in the input. The first control is always kept.
func DedupeControls(controls []Control) []Control {
	kept := make([]Control, 0, len(controls))
	for i, control := range controls {
		if i > 0 {
			if d := control.Pos().Distance(controls[i-1].Pos()); d <= DuplicateControlDistance {
				slog.Debug("dropping duplicate control", "code", control.Code, "previous", controls[i-1].Code, "distance", d)
				continue
			}
		}
		kept = append(kept, control)
	}
	return kept
}

// BuildLegs connects each control to the next one. Fewer than two controls gives no legs.
func BuildLegs(controls []Control) []Leg {
	if len(controls) < 2 {
		return []Leg{}
	}
	legs := make([]Leg, 0, len(controls)-1)
	for i := 1; i < len(controls); i++ {
		from, to := controls[i-1], controls[i]
		legs = append(legs, Leg{
			StartControlCode:  from.Code,
			FinishControlCode: to.Code,
			StartLat:          from.Lat,
			StartLon:          from.Lon,
			FinishLat:         to.Lat,
			FinishLon:         to.Lon,
			Routechoices:      []Routechoice{},
		})
	}
	return legs
}
