// Package elevation looks up ground elevation for positions that were recorded without one.
package elevation

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"

	"github.com/dave/routechoices/geo"
	"github.com/tkrajina/go-elevations/geoelevations"
)

// Source is satisfied by *geoelevations.Srtm.
type Source interface {
	GetElevation(client *http.Client, lat, lon float64) (float64, error)
}

// ErrNoData is returned for positions SRTM has no elevation for: voids in the data and tiles
// with no coverage, such as the sea.
var ErrNoData = errors.New("no elevation data")

// Lookup caches elevations by position. It is safe for concurrent use.
type Lookup struct {
	source Source
	client *http.Client

	mu    sync.Mutex
	cache map[geo.Pos]float64 // NaN marks a position without data
}

func New(source Source, client *http.Client) *Lookup {
	if client == nil {
		client = http.DefaultClient
	}
	return &Lookup{
		source: source,
		client: client,
		cache:  map[geo.Pos]float64{},
	}
}

// NewSrtm returns a Lookup backed by SRTM tiles, downloaded on demand with client.
func NewSrtm(client *http.Client) (*Lookup, error) {
	if client == nil {
		client = http.DefaultClient
	}
	srtm, err := geoelevations.NewSrtm(client)
	if err != nil {
		return nil, fmt.Errorf("creating srtm client: %w", err)
	}
	return New(srtm, client), nil
}

func (l *Lookup) Elevation(pos geo.Pos) (float64, error) {
	l.mu.Lock()
	ele, found := l.cache[pos]
	l.mu.Unlock()
	if !found {
		var err error
		ele, err = l.source.GetElevation(l.client, pos.Lat, pos.Lon)
		if err != nil {
			return 0, fmt.Errorf("looking up elevation for %v,%v: %w", pos.Lat, pos.Lon, err)
		}
		if math.IsInf(ele, 0) {
			ele = math.NaN()
		}
		l.mu.Lock()
		l.cache[pos] = ele
		l.mu.Unlock()
	}
	if math.IsNaN(ele) {
		return 0, fmt.Errorf("%w at %v,%v", ErrNoData, pos.Lat, pos.Lon)
	}
	return ele, nil
}
