package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrRejected = errors.New("job rejected by queue")
)
