package csvimport

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is returned when the CSV body is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the body is not UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the CSV body has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// MissingColumnsError lists required header columns that were not found
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("CSV file missing required columns: %v", e.Columns)
}

// RowError reports a row that could not be decoded. Line counts the header
// as line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ErrUnsupportedCharset is returned for a charset with no known decoder
var ErrUnsupportedCharset = errors.New("unsupported charset")
