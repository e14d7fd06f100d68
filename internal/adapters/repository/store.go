// Package repository defines the evaluation and scouting report stores.
package repository

import (
	"context"

	"github.com/okian/talentscope/internal/domain/model"
)

// EvaluationStore is an append-only record of unified evaluations.
type EvaluationStore interface {
	// Append stores e. Returns ErrDuplicateEvaluation when the id is taken.
	Append(ctx context.Context, e model.UnifiedEvaluation) error

	// Get returns the evaluation with id. Returns ErrEvaluationNotFound when
	// the id is unknown.
	Get(ctx context.Context, id string) (model.UnifiedEvaluation, error)

	// Snapshot returns a deep copy of every evaluation in insertion order.
	Snapshot(ctx context.Context) []model.UnifiedEvaluation

	// ByPlayer returns a deep copy of the player's evaluations in insertion order.
	ByPlayer(ctx context.Context, playerID string) []model.UnifiedEvaluation

	// Count returns the number of stored evaluations.
	Count(ctx context.Context) int

	// PlayerIDs returns every player with at least one evaluation, in
	// first-appearance order.
	PlayerIDs(ctx context.Context) []string
}

// ReportStore holds scouting reports.
type ReportStore interface {
	// PutReport stores a new report. Returns ErrDuplicateReport when the id
	// is taken.
	PutReport(ctx context.Context, r model.ScoutingReport) error

	// GetReport returns the report with id or ErrReportNotFound.
	GetReport(ctx context.Context, id string) (model.ScoutingReport, error)

	// ReportsByPlayer returns the player's reports in registration order.
	ReportsByPlayer(ctx context.Context, playerID string) []model.ScoutingReport

	// MarkCompleted links evaluationID to the report and sets its status to
	// completed. Returns ErrReportNotFound, ErrReportCompleted or
	// ErrReportCancelled.
	MarkCompleted(ctx context.Context, id, evaluationID string) (model.ScoutingReport, error)

	// ReportCount returns the number of stored reports.
	ReportCount(ctx context.Context) int
}

// VisitCompleter is implemented by stores that hold both evaluations and
// reports. CompleteVisit appends e and completes the report in one step, so
// a refused completion leaves no evaluation behind. It returns the
// MarkCompleted errors and ErrDuplicateEvaluation.
type VisitCompleter interface {
	CompleteVisit(ctx context.Context, reportID string, e model.UnifiedEvaluation) (model.ScoutingReport, error)
}
