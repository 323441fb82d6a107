package service

import "errors"

// Sentinel kinds for dashboard errors.
var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
)
