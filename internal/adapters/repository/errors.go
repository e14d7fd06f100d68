package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrDuplicateEvaluation = errors.New("evaluation id already exists")
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrDuplicateReport     = errors.New("scouting report id already exists")
	ErrReportNotFound      = errors.New("scouting report not found")
	ErrReportCompleted     = errors.New("scouting report already completed")
	ErrReportCancelled     = errors.New("scouting report was cancelled")
)
