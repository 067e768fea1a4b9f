package dataset

import "errors"

var (
	// ErrUnsupportedFormat indicates a file extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrNoData indicates a table without a header or data rows.
	ErrNoData = errors.New("no data rows")

	// ErrMissingColumn indicates a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidValue indicates a cell that cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")
)
