package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrNoQueries = errors.New("no sql files to export")
	ErrWrite     = errors.New("write csv")
)
