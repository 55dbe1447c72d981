package dataset

import (
	"errors"
	"fmt"
)

// ErrNoData indicates the input had a header but no usable rows.
var ErrNoData = errors.New("no data rows")

// ErrNoSeries indicates the header names no Y columns.
var ErrNoSeries = errors.New("no series columns")

// ImportError describes a cell that could not be turned into a data point.
type ImportError struct {
	Sheet  string
	Row    int // 1-based, including the header row
	Column string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("import %q row %d column %q: %v", e.Sheet, e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("import row %d column %q: %v", e.Row, e.Column, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
