package seed

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrLoadDataset   = errors.New("load dataset failed")
	ErrSchema        = errors.New("dataset record violates schema")
	ErrInvalidRecord = errors.New("invalid dataset record")
)
