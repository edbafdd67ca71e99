package course

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/routechoices/geo"
)

// Fingerprint identifies a geometry by the exact sequence of its coordinates. Two geometries
// with the same points in the same order share a fingerprint.
func Fingerprint(samples []Sample) string {
	var sb strings.Builder
	for _, s := range samples {
		sb.WriteString(strconv.FormatFloat(s.Lat, 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(s.Lon, 'g', -1, 64))
		sb.WriteByte(';')
	}
	return sb.String()
}

// ExtractRoutechoices removes duplicate geometries and measures the rest. Track geometries are
// scanned before route geometries, so a track wins over an identical route; within a kind the
// input order is kept. Geometries with no samples are skipped.
func ExtractRoutechoices(geometries []Geometry) ([]Routechoice, error) {
	ordered := make([]Geometry, len(geometries))
	copy(ordered, geometries)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Kind < ordered[j].Kind })

	seen := map[string]bool{}
	var routechoices []Routechoice
	for i, g := range ordered {
		if len(g.Samples) == 0 {
			slog.Debug("skipping empty geometry", "kind", g.Kind, "index", i)
			continue
		}
		for j, s := range g.Samples {
			if !finite(s.Lat) || !finite(s.Lon) {
				return nil, fmt.Errorf("%w: %s sample %d is not a finite position", ErrInvalidPoint, g.Kind, j)
			}
		}
		key := Fingerprint(g.Samples)
		if seen[key] {
			slog.Debug("dropping duplicate geometry", "kind", g.Kind, "points", len(g.Samples))
			continue
		}
		seen[key] = true
		routechoices = append(routechoices, measure(g.Samples))
	}
	return routechoices, nil
}

func measure(samples []Sample) Routechoice {
	track := make(Track, len(samples))
	elevations := make([]*float64, len(samples))
	var hasElevation bool
	for i, s := range samples {
		track[i] = s.Pos
		if s.Elevation != nil {
			e := *s.Elevation
			elevations[i] = &e
			hasElevation = true
		}
	}
	rc := Routechoice{
		Track:  track,
		Length: geo.Line(track).Length(),
	}
	if hasElevation {
		gain := geo.PositiveElevationGain(elevations)
		rc.Elevation = &gain
	}
	return rc
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
