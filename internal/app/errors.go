package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidLimit   = errors.New("invalid candidate limit")
	ErrPlayerMismatch = errors.New("evaluation player does not match scouting report")
)
