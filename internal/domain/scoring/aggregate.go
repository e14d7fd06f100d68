// Package scoring reduces raw sub-metric scores to category averages, a single
// overall score, and a discrete grade.
package scoring

import (
	"github.com/okian/talentscope/internal/domain/model"
)

// CategoryAverage returns the arithmetic mean of exactly eight sub-metric
// scores. Any other count fails with *InvalidCategoryError rather than
// dividing by the wrong denominator.
func CategoryAverage(scores model.CategoryScores) (float64, error) {
	if len(scores) != model.SubMetricsPerCategory {
		return 0, &InvalidCategoryError{Count: len(scores)}
	}
	sum := 0
	for _, v := range scores {
		sum += v
	}
	return float64(sum) / model.SubMetricsPerCategory, nil
}

// CategoryAverages holds the five category means of one evaluation.
type CategoryAverages struct {
	Technical float64 `json:"technical" yaml:"technical"`
	Tactical  float64 `json:"tactical" yaml:"tactical"`
	Physical  float64 `json:"physical" yaml:"physical"`
	Mental    float64 `json:"mental" yaml:"mental"`
	Social    float64 `json:"social" yaml:"social"`
}

// Get returns the average for c.
func (a CategoryAverages) Get(c model.Category) float64 {
	switch c {
	case model.Technical:
		return a.Technical
	case model.Tactical:
		return a.Tactical
	case model.Physical:
		return a.Physical
	case model.Mental:
		return a.Mental
	case model.Social:
		return a.Social
	default:
		return 0
	}
}

func (a *CategoryAverages) set(c model.Category, v float64) {
	switch c {
	case model.Technical:
		a.Technical = v
	case model.Tactical:
		a.Tactical = v
	case model.Physical:
		a.Physical = v
	case model.Mental:
		a.Mental = v
	case model.Social:
		a.Social = v
	}
}

// Averages computes all five category averages.
func Averages(scores model.UnifiedEvaluationScores) (CategoryAverages, error) {
	var out CategoryAverages
	for _, c := range model.Categories {
		avg, err := CategoryAverage(scores.Category(c))
		if err != nil {
			return CategoryAverages{}, withCategory(err, c)
		}
		out.set(c, avg)
	}
	return out, nil
}

// Overall is the unweighted mean of the five category averages.
func (a CategoryAverages) Overall() float64 {
	return (a.Technical + a.Tactical + a.Physical + a.Mental + a.Social) / float64(len(model.Categories))
}

// OverallScore returns the unweighted mean of the five category averages.
func OverallScore(scores model.UnifiedEvaluationScores) (float64, error) {
	avgs, err := Averages(scores)
	if err != nil {
		return 0, err
	}
	return avgs.Overall(), nil
}

// Summary is every derived score of one evaluation.
type Summary struct {
	Averages CategoryAverages `json:"category_averages" yaml:"category_averages"`
	Overall  float64          `json:"overall_score" yaml:"overall_score"`
	Grade    Grade            `json:"grade" yaml:"grade"`
}

// Summarize derives averages, overall score and grade for e in one pass.
func Summarize(e model.UnifiedEvaluation) (Summary, error) {
	avgs, err := Averages(e.Scores)
	if err != nil {
		return Summary{}, err
	}
	overall := avgs.Overall()
	return Summary{Averages: avgs, Overall: overall, Grade: ScoreToGrade(overall)}, nil
}
