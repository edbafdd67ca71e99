package elevation

import (
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/dave/routechoices/geo"
)

type fakeSource struct {
	calls int
	err   error
}

func (f *fakeSource) GetElevation(client *http.Client, lat, lon float64) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return lat * 10, nil
}

func TestLookupCaches(t *testing.T) {
	src := &fakeSource{}
	l := New(src, nil)

	for i := 0; i < 3; i++ {
		ele, err := l.Elevation(geo.Pos{Lat: 45, Lon: 5})
		if err != nil {
			t.Fatalf("Elevation failed: %v", err)
		}
		if ele != 450 {
			t.Fatalf("expected 450, got %f", ele)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 lookup, got %d", src.calls)
	}

	if _, err := l.Elevation(geo.Pos{Lat: 46, Lon: 5}); err != nil {
		t.Fatalf("Elevation failed: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected 2 lookups, got %d", src.calls)
	}
}

func TestLookupError(t *testing.T) {
	boom := errors.New("no tile")
	l := New(&fakeSource{err: boom}, nil)
	if _, err := l.Elevation(geo.Pos{Lat: 45, Lon: 5}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

type voidSource struct {
	calls int
}

func (v *voidSource) GetElevation(client *http.Client, lat, lon float64) (float64, error) {
	v.calls++
	return math.NaN(), nil
}

func TestLookupNoData(t *testing.T) {
	src := &voidSource{}
	l := New(src, nil)
	for i := 0; i < 2; i++ {
		if _, err := l.Elevation(geo.Pos{Lat: 43, Lon: 7.5}); !errors.Is(err, ErrNoData) {
			t.Fatalf("expected ErrNoData, got %v", err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 lookup, got %d", src.calls)
	}
}
