package model

import (
	"fmt"
	"strings"
	"time"
)

// ReportStatus is the lifecycle state of a scouting visit.
type ReportStatus string

// Scouting report states.
const (
	ReportPlanned   ReportStatus = "planned"
	ReportCompleted ReportStatus = "completed"
	ReportCancelled ReportStatus = "cancelled"
)

// ParseReportStatus parses a case-insensitive status; empty means planned.
func ParseReportStatus(v string) (ReportStatus, error) {
	switch s := ReportStatus(strings.ToLower(strings.TrimSpace(v))); s {
	case "":
		return ReportPlanned, nil
	case ReportPlanned, ReportCompleted, ReportCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
}

// ScoutingReport records a scouting visit. Once completed it references the
// evaluation written for that visit through EvaluationID.
type ScoutingReport struct {
	ID           string
	PlayerID     string
	ScoutName    string
	VisitDate    time.Time
	Status       ReportStatus
	EvaluationID string // empty until the visit is completed
}

// Completed reports whether the visit is complete and linked to an evaluation.
func (r ScoutingReport) Completed() bool {
	return r.Status == ReportCompleted && r.EvaluationID != ""
}
