// Package types contains the wire views shared by the HTTP API and the CLI.
package types

import (
	"github.com/okian/talentscope/internal/domain/history"
	"github.com/okian/talentscope/internal/domain/legacy"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
	"github.com/okian/talentscope/internal/domain/trend"
)

// Evaluation is a stored evaluation together with its derived scores.
type Evaluation struct {
	ID               string                        `json:"id" yaml:"id"`
	PlayerID         string                        `json:"player_id" yaml:"player_id"`
	EvaluatorName    string                        `json:"evaluator_name,omitempty" yaml:"evaluator_name,omitempty"`
	EvaluatorRole    string                        `json:"evaluator_role,omitempty" yaml:"evaluator_role,omitempty"`
	EvaluationDate   string                        `json:"evaluation_date" yaml:"evaluation_date"`
	Source           model.Source                  `json:"source" yaml:"source"`
	Scores           model.UnifiedEvaluationScores `json:"scores" yaml:"scores"`
	Comments         string                        `json:"comments,omitempty" yaml:"comments,omitempty"`
	RelatedEvent     string                        `json:"related_event,omitempty" yaml:"related_event,omitempty"`
	CategoryAverages scoring.CategoryAverages      `json:"category_averages" yaml:"category_averages"`
	OverallScore     float64                       `json:"overall_score" yaml:"overall_score"`
	Grade            scoring.Grade                 `json:"grade" yaml:"grade"`
}

// NewEvaluation builds the view of e.
func NewEvaluation(e model.UnifiedEvaluation) (Evaluation, error) {
	sum, err := scoring.Summarize(e)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		ID:               e.ID,
		PlayerID:         e.PlayerID,
		EvaluatorName:    e.EvaluatorName,
		EvaluatorRole:    e.EvaluatorRole,
		EvaluationDate:   e.EvaluationDate.Format(model.DateLayout),
		Source:           e.Source,
		Scores:           e.Scores.Clone(),
		Comments:         e.Comments,
		RelatedEvent:     e.RelatedEvent,
		CategoryAverages: sum.Averages,
		OverallScore:     sum.Overall,
		Grade:            sum.Grade,
	}, nil
}

// NewEvaluations builds views for evals, keeping their order.
func NewEvaluations(evals []model.UnifiedEvaluation) ([]Evaluation, error) {
	out := make([]Evaluation, 0, len(evals))
	for _, e := range evals {
		v, err := NewEvaluation(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// TrendValue returns nil for an undefined trend so it encodes as null.
func TrendValue(d trend.Direction) *string {
	if !d.Defined() {
		return nil
	}
	s := string(d)
	return &s
}

// History is a player's evaluation history. LatestEvaluation and Trend are
// null when the player has no evaluations; Trend is also null for a single
// evaluation.
type History struct {
	PlayerID         string       `json:"player_id" yaml:"player_id"`
	TotalEvaluations int          `json:"total_evaluations" yaml:"total_evaluations"`
	LatestEvaluation *Evaluation  `json:"latest_evaluation" yaml:"latest_evaluation"`
	Trend            *string      `json:"trend" yaml:"trend"`
	Evaluations      []Evaluation `json:"evaluations" yaml:"evaluations"`
}

// NewHistory builds the view of h. A nil h yields the empty history of playerID.
func NewHistory(playerID string, h *history.PlayerEvaluationHistory) (History, error) {
	out := History{PlayerID: playerID, Evaluations: []Evaluation{}}
	if h == nil {
		return out, nil
	}
	evals, err := NewEvaluations(h.Evaluations)
	if err != nil {
		return History{}, err
	}
	out.TotalEvaluations = h.TotalEvaluations
	out.Evaluations = evals
	out.LatestEvaluation = &evals[0]
	out.Trend = TrendValue(h.Trend)
	return out, nil
}

// Trend is a player's growth trend.
type Trend struct {
	PlayerID    string   `json:"player_id" yaml:"player_id"`
	Trend       *string  `json:"trend" yaml:"trend"`
	Evaluations int      `json:"evaluations" yaml:"evaluations"`
	Epsilon     float64  `json:"epsilon" yaml:"epsilon"`
	Delta       *float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// CandidateEntry is one row of the ranked candidate list.
type CandidateEntry struct {
	Rank          int           `json:"rank" yaml:"rank"`
	PlayerID      string        `json:"player_id" yaml:"player_id"`
	LatestOverall float64       `json:"latest_overall" yaml:"latest_overall"`
	Grade         scoring.Grade `json:"grade" yaml:"grade"`
	Trend         *string       `json:"trend" yaml:"trend"`
	Evaluations   int           `json:"evaluations" yaml:"evaluations"`
	LatestDate    string        `json:"latest_date" yaml:"latest_date"`
}

// Radar is the five-point radar chart of a player's latest evaluation.
type Radar struct {
	PlayerID       string            `json:"player_id" yaml:"player_id"`
	EvaluationID   string            `json:"evaluation_id" yaml:"evaluation_id"`
	EvaluationDate string            `json:"evaluation_date" yaml:"evaluation_date"`
	Scale          string            `json:"scale" yaml:"scale"`
	Chart          legacy.RadarChart `json:"chart" yaml:"chart"`
}

// RadarScale names the scale of Radar charts.
const RadarScale = "five_point"

// NewRadar builds the radar view of e.
func NewRadar(e model.UnifiedEvaluation) (Radar, error) {
	chart, err := legacy.Radar(e)
	if err != nil {
		return Radar{}, err
	}
	return Radar{
		PlayerID:       e.PlayerID,
		EvaluationID:   e.ID,
		EvaluationDate: e.EvaluationDate.Format(model.DateLayout),
		Scale:          RadarScale,
		Chart:          chart,
	}, nil
}

// Report is a scouting report.
type Report struct {
	ID           string             `json:"id" yaml:"id"`
	PlayerID     string             `json:"player_id" yaml:"player_id"`
	ScoutName    string             `json:"scout_name,omitempty" yaml:"scout_name,omitempty"`
	VisitDate    string             `json:"visit_date" yaml:"visit_date"`
	Status       model.ReportStatus `json:"status" yaml:"status"`
	EvaluationID string             `json:"evaluation_id,omitempty" yaml:"evaluation_id,omitempty"`
}

// NewReport builds the view of r.
func NewReport(r model.ScoutingReport) Report {
	return Report{
		ID:           r.ID,
		PlayerID:     r.PlayerID,
		ScoutName:    r.ScoutName,
		VisitDate:    r.VisitDate.Format(model.DateLayout),
		Status:       r.Status,
		EvaluationID: r.EvaluationID,
	}
}
