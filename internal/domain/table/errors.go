package table

import "errors"

// Sentinel kinds for table access errors.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrRowOutOfRange  = errors.New("row out of range")
)
