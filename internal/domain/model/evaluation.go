// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format for evaluation and visit dates.
const DateLayout = "2006-01-02"

// UnifiedEvaluation is one immutable evaluation record. Construct it with
// NewUnifiedEvaluation; corrections are new records, never edits.
type UnifiedEvaluation struct {
	ID             string                  // globally unique, immutable
	PlayerID       string                  // evaluated player
	EvaluatorName  string                  // staff member who evaluated
	EvaluatorRole  string                  // e.g. "scout", "coach"
	EvaluationDate time.Time               // calendar date, UTC midnight
	Source         Source                  // scouting, match, training, ...
	Scores         UnifiedEvaluationScores // 5 categories x 8 sub-metrics
	Comments       string
	RelatedEvent   string // optional, e.g. "U17 regional camp"
}

// EvaluationInput carries the caller-supplied fields of a new evaluation.
type EvaluationInput struct {
	ID             string
	PlayerID       string
	EvaluatorName  string
	EvaluatorRole  string
	EvaluationDate time.Time
	Source         Source
	Scores         UnifiedEvaluationScores
	Comments       string
	RelatedEvent   string
}

// NewUnifiedEvaluation validates in and returns the record. Scores are deep
// copied so later changes to the input maps never reach the record.
func NewUnifiedEvaluation(in EvaluationInput) (UnifiedEvaluation, error) {
	switch {
	case strings.TrimSpace(in.ID) == "":
		return UnifiedEvaluation{}, ErrMissingID
	case strings.TrimSpace(in.PlayerID) == "":
		return UnifiedEvaluation{}, ErrMissingPlayerID
	case in.EvaluationDate.IsZero():
		return UnifiedEvaluation{}, ErrMissingDate
	case !in.Source.Valid():
		return UnifiedEvaluation{}, fmt.Errorf("%w: %q", ErrInvalidSource, in.Source)
	}
	if err := in.Scores.Validate(); err != nil {
		return UnifiedEvaluation{}, fmt.Errorf("evaluation %s: %w", in.ID, err)
	}
	return UnifiedEvaluation{
		ID:             strings.TrimSpace(in.ID),
		PlayerID:       strings.TrimSpace(in.PlayerID),
		EvaluatorName:  in.EvaluatorName,
		EvaluatorRole:  in.EvaluatorRole,
		EvaluationDate: CalendarDate(in.EvaluationDate),
		Source:         in.Source,
		Scores:         in.Scores.Clone(),
		Comments:       in.Comments,
		RelatedEvent:   in.RelatedEvent,
	}, nil
}

// Clone returns a deep copy of e.
func (e UnifiedEvaluation) Clone() UnifiedEvaluation {
	e.Scores = e.Scores.Clone()
	return e
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMissingDate, v)
	}
	return t, nil
}
