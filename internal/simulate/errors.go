package simulate

import "errors"

// Sentinel errors for simulation runs.
var (
	ErrUnhealthy    = errors.New("service health check failed")
	ErrSubmission   = errors.New("evaluation submission failed")
	ErrVerification = errors.New("history verification failed")
)
