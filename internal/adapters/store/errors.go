package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrOpen    = errors.New("open data source")
	ErrLoadCSV = errors.New("load csv snapshot")
	ErrQuery   = errors.New("query failed")
)
