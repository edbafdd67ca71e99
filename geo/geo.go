package geo

import (
	"math"
)

// EarthRadius is the mean earth radius in meters used by Distance.
const EarthRadius = 6371000

type Line []Pos

// Length is the sum of the distances between consecutive positions, in meters.
func (l Line) Length() float64 {
	var total float64
	for i, pos := range l {
		if i == 0 {
			continue
		}
		total += l[i-1].Distance(pos)
	}
	return total
}

// Start is the first Pos in the line
func (l Line) Start() Pos {
	return l[0]
}

// End is the last Pos in the line
func (l Line) End() Pos {
	return l[len(l)-1]
}

type Pos struct {
	Lat, Lon float64
}

// Distance is the haversine great-circle distance in meters to another position.
func (p1 Pos) Distance(p2 Pos) float64 {
	lat1 := radians(p1.Lat)
	lat2 := radians(p2.Lat)
	dlat := lat2 - lat1
	dlon := radians(p2.Lon) - radians(p1.Lon)

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)

	// rounding can push a fraction of an ulp past 1 for antipodal points
	if a > 1 {
		a = 1
	}

	return 2 * EarthRadius * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// PositiveElevationGain sums the climbs between consecutive elevation samples, in meters. A nil
// sample breaks the chain: no difference is taken across it, so the climb into the next present
// sample is not counted.
func PositiveElevationGain(elevations []*float64) float64 {
	var gain float64
	for i := 1; i < len(elevations); i++ {
		prev, cur := elevations[i-1], elevations[i]
		if prev == nil || cur == nil {
			continue
		}
		if diff := *cur - *prev; diff > 0 {
			gain += diff
		}
	}
	return gain
}
