package converter

import (
	"errors"
	"fmt"
)

// ErrInputNotFound is returned by Run when the input path does not exist.
var ErrInputNotFound = errors.New("input file not found")

// MissingFieldError reports a required column that is absent from a record.
type MissingFieldError struct {
	// Column is the missing column name.
	Column string

	// Line is the input line of the record.
	Line int
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing column in CSV: %q", e.Column)
}

// RowError reports any other failure while transforming one record.
type RowError struct {
	// Line is the input line of the record.
	Line int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("error while processing row: %v", e.Err)
}

// Unwrap returns the underlying failure.
func (e *RowError) Unwrap() error {
	return e.Err
}
