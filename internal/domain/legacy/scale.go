// Package legacy converts unified 1-10 averages to the five-point scale used
// by the older radar chart views.
//
// The conversion is lossy and one-directional. A five-point value cannot be
// mapped back to the 1-10 average it came from, so nothing in this package
// is ever fed back into scoring or trend analysis.
package legacy

import (
	"math"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
)

// Bounds of the five-point scale.
const (
	MinFivePoint = 1
	MaxFivePoint = 5
)

// ToFivePointScale halves avg, rounds half away from zero and clamps to 1..5.
func ToFivePointScale(avg float64) int {
	v := int(math.Round(avg / 2))
	if v < MinFivePoint {
		return MinFivePoint
	}
	if v > MaxFivePoint {
		return MaxFivePoint
	}
	return v
}

// RadarChart holds one five-point value per category.
type RadarChart struct {
	Technical int `json:"technical" yaml:"technical"`
	Tactical  int `json:"tactical" yaml:"tactical"`
	Physical  int `json:"physical" yaml:"physical"`
	Mental    int `json:"mental" yaml:"mental"`
	Social    int `json:"social" yaml:"social"`
}

// Get returns the value for c, or 0 for an unknown category.
func (r RadarChart) Get(c model.Category) int {
	switch c {
	case model.Technical:
		return r.Technical
	case model.Tactical:
		return r.Tactical
	case model.Physical:
		return r.Physical
	case model.Mental:
		return r.Mental
	case model.Social:
		return r.Social
	}
	return 0
}

// FromAverages converts category averages to a radar chart.
func FromAverages(a scoring.CategoryAverages) RadarChart {
	return RadarChart{
		Technical: ToFivePointScale(a.Technical),
		Tactical:  ToFivePointScale(a.Tactical),
		Physical:  ToFivePointScale(a.Physical),
		Mental:    ToFivePointScale(a.Mental),
		Social:    ToFivePointScale(a.Social),
	}
}

// Radar converts the category averages of e to a radar chart.
func Radar(e model.UnifiedEvaluation) (RadarChart, error) {
	avgs, err := scoring.Averages(e.Scores)
	if err != nil {
		return RadarChart{}, err
	}
	return FromAverages(avgs), nil
}
