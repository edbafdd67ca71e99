package course

import "errors"

var (
	// ErrInvalidFormat is returned when a document lacks the expected root elements or version marker.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrMissingCoordinates is returned when a control has no resolvable position.
	ErrMissingCoordinates = errors.New("missing coordinates")

	// ErrMissingControl is returned when a course references a control absent from the control table.
	ErrMissingControl = errors.New("missing control")

	// ErrInvalidPoint is returned for absent or non-numeric coordinates.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrDegenerateCalibration is returned when the calibration basis has coincident points.
	ErrDegenerateCalibration = errors.New("degenerate calibration")

	// ErrSchemaViolation is returned when a JSON export does not have the expected shape.
	ErrSchemaViolation = errors.New("schema violation")
)
