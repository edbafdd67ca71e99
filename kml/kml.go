package kml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/geo"
)

const Xmlns = "http://www.opengis.net/kml/2.2"

// Colors cycle over the routechoices of a leg. KML colors are aabbggrr.
var Colors = []struct{ Name, Color string }{
	{"red", "961400FF"},
	{"blue", "96FF7800"},
	{"green", "9678FF00"},
	{"orange", "961478FF"},
	{"purple", "96FF7878"},
	{"cyan", "96F0FF14"},
	{"pink", "96A078F0"},
	{"brown", "96143C96"},
}

func Load(fpath string) (Root, error) {
	b, err := os.ReadFile(fpath)
	if err != nil {
		return Root{}, fmt.Errorf("reading kml %q: %w", fpath, err)
	}
	return Decode(bytes.NewBuffer(b))
}

func Decode(reader io.Reader) (Root, error) {
	var r Root
	if err := xml.NewDecoder(reader).Decode(&r); err != nil {
		return Root{}, fmt.Errorf("decoding kml: %w", err)
	}
	return r, nil
}

type Root struct {
	Xmlns    string   `xml:"xmlns,attr"`
	Document Document `xml:"Document"`
}

func (r Root) Encode(w io.Writer) error {
	wrapper := struct {
		Root
		XMLName struct{} `xml:"kml"`
	}{Root: r}
	bw, err := xml.MarshalIndent(wrapper, "", "\t")
	if err != nil {
		return fmt.Errorf("marshaling kml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header+string(bw)+"\n"); err != nil {
		return fmt.Errorf("writing kml: %w", err)
	}
	return nil
}

func (r Root) Save(fpath string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(fpath, buf.Bytes(), 0666); err != nil {
		return fmt.Errorf("writing kml file %q: %w", fpath, err)
	}
	return nil
}

type Document struct {
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	Visibility  int       `xml:"visibility"`
	Open        int       `xml:"open"`
	Styles      []*Style  `xml:"Style"`
	Folders     []*Folder `xml:"Folder"`
}

type Style struct {
	Id        string    `xml:"id,attr,omitempty"`
	LineStyle LineStyle `xml:"LineStyle"`
}

type LineStyle struct {
	Color string  `xml:"color"`
	Width float64 `xml:"width,omitempty"`
}

type Folder struct {
	Name        string       `xml:"name"`
	Description string       `xml:"description"`
	Visibility  int          `xml:"visibility"`
	Open        int          `xml:"open"`
	Placemarks  []*Placemark `xml:"Placemark"`
	Folders     []*Folder    `xml:"Folder"`
}

type Placemark struct {
	Name        string      `xml:"name"`
	Description string      `xml:"description"`
	Visibility  int         `xml:"visibility"`
	Open        int         `xml:"open"`
	StyleUrl    string      `xml:"styleUrl,omitempty"`
	Point       *Point      `xml:"Point,omitempty"`
	LineString  *LineString `xml:"LineString,omitempty"`
}

type Point struct {
	Coordinates string `xml:"coordinates"`
}

func PosPoint(pos geo.Pos) *Point {
	return &Point{Coordinates: PosCoordinates(pos)}
}

func (p Point) Pos() (geo.Pos, error) {
	return parseCoordinates(strings.TrimSpace(p.Coordinates))
}

type LineString struct {
	Tessellate  bool   `xml:"tessellate"`
	Coordinates string `xml:"coordinates"`
}

func (l LineString) Line() (geo.Line, error) {
	fields := strings.Fields(l.Coordinates)
	line := make(geo.Line, len(fields))
	for i, csv := range fields {
		pos, err := parseCoordinates(csv)
		if err != nil {
			return nil, err
		}
		line[i] = pos
	}
	return line, nil
}

// parseCoordinates reads "lon,lat[,alt]". Altitude is ignored.
func parseCoordinates(csv string) (geo.Pos, error) {
	parts := strings.Split(csv, ",")
	if len(parts) < 2 {
		return geo.Pos{}, fmt.Errorf("parsing kml coordinates %q: expected lon,lat", csv)
	}
	var pos geo.Pos
	var err error
	if pos.Lon, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return geo.Pos{}, fmt.Errorf("parsing kml longitude %q: %w", parts[0], err)
	}
	if pos.Lat, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return geo.Pos{}, fmt.Errorf("parsing kml latitude %q: %w", parts[1], err)
	}
	return pos, nil
}

func LineCoordinates(line geo.Line) string {
	var sb strings.Builder
	for i, pos := range line {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(PosCoordinates(pos))
	}
	return sb.String()
}

func PosCoordinates(pos geo.Pos) string {
	return fmt.Sprintf("%v,%v", pos.Lon, pos.Lat)
}

// FromCourse lays a course out as a Controls folder and one folder per leg holding its
// routechoices.
func FromCourse(name string, controls []course.Control, legs []course.Leg) Root {
	var styles []*Style
	for _, c := range Colors {
		styles = append(styles, &Style{
			Id:        c.Name,
			LineStyle: LineStyle{Color: c.Color, Width: 4},
		})
	}

	controlsFolder := &Folder{
		Name:       "Controls",
		Visibility: 1,
		Open:       1,
	}
	for _, c := range controls {
		controlsFolder.Placemarks = append(controlsFolder.Placemarks, &Placemark{
			Name:        c.Code,
			Description: c.ID,
			Visibility:  1,
			Point:       PosPoint(c.Pos()),
		})
	}

	legsFolder := &Folder{
		Name:       "Legs",
		Visibility: 1,
	}
	for _, leg := range legs {
		legFolder := &Folder{
			Name:       leg.String(),
			Visibility: 1,
		}
		for i, rc := range leg.Routechoices {
			desc := fmt.Sprintf("%.0f m", rc.Length)
			if rc.Elevation != nil {
				desc += fmt.Sprintf(", %.0f m climb", *rc.Elevation)
			}
			legFolder.Placemarks = append(legFolder.Placemarks, &Placemark{
				Name:        fmt.Sprintf("%s #%d", leg, i+1),
				Description: desc,
				Visibility:  1,
				StyleUrl:    "#" + Colors[i%len(Colors)].Name,
				LineString: &LineString{
					Tessellate:  true,
					Coordinates: LineCoordinates(rc.Track.Line()),
				},
			})
		}
		legsFolder.Folders = append(legsFolder.Folders, legFolder)
	}

	return Root{
		Xmlns: Xmlns,
		Document: Document{
			Name:       name,
			Visibility: 1,
			Open:       1,
			Styles:     styles,
			Folders:    []*Folder{controlsFolder, legsFolder},
		},
	}
}
