package rerun

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dave/routechoices/course"
	"github.com/tidwall/gjson"
)

// Tag is a routechoice drawn in 2D Rerun. Points are "lat,lon" strings and PointsXY the matching
// "x,y" map positions.
type Tag struct {
	Type           string   `json:"type"`
	OpenedDialog   float64  `json:"opened_dialog"`
	ReadyForDialog float64  `json:"ready_for_dialog"`
	RunnerName     string   `json:"runnername"`
	Points         []string `json:"points"`
	PointsXY       []string `json:"pointsxy"`
	CurrentTime    float64  `json:"currenttime"`
	CurrentAlt     float64  `json:"currentalt"`
	TotalUp        float64  `json:"totalup"`
	Show           float64  `json:"show"`
	OffsetX        float64  `json:"offsettxt_x"`
	OffsetY        float64  `json:"offsettxt_y"`
	OffsetBaseX    float64  `json:"offsettxt_basex"`
	OffsetBaseY    float64  `json:"offsettxt_basey"`
	Group          float64  `json:"group"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	Length         float64  `json:"length"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Color          string   `json:"color"`
}

// Export is a 2D Rerun course and routechoices export. CourseCoords are "x,y" map positions.
type Export struct {
	Tags         []Tag          `json:"tags"`
	CourseCoords []string       `json:"coursecoords"`
	OtechInfo    map[string]any `json:"otechinfo"`
}

var (
	tagStrings = []string{"type", "runnername", "name", "description", "color"}
	tagNumbers = []string{
		"opened_dialog", "ready_for_dialog", "currenttime", "currentalt", "totalup", "show",
		"offsettxt_x", "offsettxt_y", "offsettxt_basex", "offsettxt_basey", "group", "x", "y", "length",
	}
	tagStringArrays = []string{"points", "pointsxy"}
)

// Decode validates the shape of a 2D Rerun export and decodes it. Every field must be present
// with the right type; anything else fails with course.ErrSchemaViolation.
func Decode(data []byte) (*Export, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("%w: %v", course.ErrSchemaViolation, err)
	}
	return &exp, nil
}

func DecodeReader(r io.Reader) (*Export, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading 2d rerun export: %w", err)
	}
	return Decode(data)
}

// Load reads and decodes a 2D Rerun export file.
func Load(fpath string) (*Export, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, fmt.Errorf("reading 2d rerun export %q: %w", fpath, err)
	}
	exp, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding 2d rerun export %q: %w", fpath, err)
	}
	return exp, nil
}

func validate(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid json", course.ErrSchemaViolation)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: export is not an object", course.ErrSchemaViolation)
	}

	tags := root.Get("tags")
	if !tags.IsArray() {
		return fmt.Errorf("%w: tags must be an array", course.ErrSchemaViolation)
	}
	for i, tag := range tags.Array() {
		if err := validateTag(tag); err != nil {
			return fmt.Errorf("tag %d: %w", i, err)
		}
	}

	if err := stringArray(root, "coursecoords"); err != nil {
		return err
	}
	if !root.Get("otechinfo").IsObject() {
		return fmt.Errorf("%w: otechinfo must be an object", course.ErrSchemaViolation)
	}
	return nil
}

func validateTag(tag gjson.Result) error {
	if !tag.IsObject() {
		return fmt.Errorf("%w: not an object", course.ErrSchemaViolation)
	}
	for _, key := range tagStrings {
		if tag.Get(key).Type != gjson.String {
			return fmt.Errorf("%w: %s must be a string", course.ErrSchemaViolation, key)
		}
	}
	for _, key := range tagNumbers {
		if tag.Get(key).Type != gjson.Number {
			return fmt.Errorf("%w: %s must be a number", course.ErrSchemaViolation, key)
		}
	}
	for _, key := range tagStringArrays {
		if err := stringArray(tag, key); err != nil {
			return err
		}
	}
	return nil
}

func stringArray(parent gjson.Result, key string) error {
	v := parent.Get(key)
	if !v.IsArray() {
		return fmt.Errorf("%w: %s must be an array", course.ErrSchemaViolation, key)
	}
	for i, item := range v.Array() {
		if item.Type != gjson.String {
			return fmt.Errorf("%w: %s[%d] must be a string", course.ErrSchemaViolation, key, i)
		}
	}
	return nil
}
