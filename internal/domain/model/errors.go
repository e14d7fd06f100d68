package model

import "errors"

// Sentinel kinds for malformed evaluation data. Construction fails with one of
// these wrapped in context so callers can match with errors.Is.
var (
	ErrMissingID        = errors.New("missing evaluation id")
	ErrMissingPlayerID  = errors.New("missing player id")
	ErrMissingDate      = errors.New("missing evaluation date")
	ErrInvalidSource    = errors.New("invalid evaluation source")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrMissingSubMetric = errors.New("missing sub-metric")
	ErrUnknownSubMetric = errors.New("unknown sub-metric")
	ErrScoreOutOfRange  = errors.New("sub-metric score out of range")
	ErrInvalidStatus    = errors.New("invalid report status")
)
