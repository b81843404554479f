package dataset

import "errors"

var (
	// ErrNoSheet is returned when the input workbook has no sheets.
	ErrNoSheet = errors.New("input workbook has no sheets")

	// ErrNoHeader is returned when the input sheet is empty.
	ErrNoHeader = errors.New("input sheet has no header row")

	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")

	// ErrRowCountMismatch is returned when results do not line up with input rows.
	ErrRowCountMismatch = errors.New("row count mismatch")
)
