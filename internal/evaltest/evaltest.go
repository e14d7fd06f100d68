// Package evaltest builds valid evaluation fixtures for tests.
package evaltest

import (
	"math"

	"github.com/okian/talentscope/internal/domain/model"
)

// CategoryWithAverage returns scores for c whose mean is avg. avg is rounded
// to the nearest eighth, the resolution of an eight-metric mean.
func CategoryWithAverage(c model.Category, avg float64) model.CategoryScores {
	total := int(math.Round(avg * model.SubMetricsPerCategory))
	base := total / model.SubMetricsPerCategory
	extra := total % model.SubMetricsPerCategory
	out := make(model.CategoryScores, model.SubMetricsPerCategory)
	for i, name := range c.SubMetrics() {
		v := base
		if i < extra {
			v++
		}
		out[name] = v
	}
	return out
}

// Scores returns a full score set with the given category averages in
// technical, tactical, physical, mental, social order.
func Scores(technical, tactical, physical, mental, social float64) model.UnifiedEvaluationScores {
	return model.UnifiedEvaluationScores{
		Technical: CategoryWithAverage(model.Technical, technical),
		Tactical:  CategoryWithAverage(model.Tactical, tactical),
		Physical:  CategoryWithAverage(model.Physical, physical),
		Mental:    CategoryWithAverage(model.Mental, mental),
		Social:    CategoryWithAverage(model.Social, social),
	}
}

// Evaluation builds a validated record dated YYYY-MM-DD. It panics on invalid
// input so fixtures fail loudly.
func Evaluation(id, playerID, date string, source model.Source, scores model.UnifiedEvaluationScores) model.UnifiedEvaluation {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	ev, err := model.NewUnifiedEvaluation(model.EvaluationInput{
		ID:             id,
		PlayerID:       playerID,
		EvaluatorName:  "fixture",
		EvaluatorRole:  "coach",
		EvaluationDate: d,
		Source:         source,
		Scores:         scores,
	})
	if err != nil {
		panic(err)
	}
	return ev
}

// Uniform builds a record with every sub-metric equal to v.
func Uniform(id, playerID, date string, v int) model.UnifiedEvaluation {
	return Evaluation(id, playerID, date, model.SourceMatch, model.UniformScores(v))
}
