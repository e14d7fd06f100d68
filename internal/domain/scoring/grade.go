package scoring

import (
	"fmt"
	"strings"
)

// Grade is a discrete tier derived from an overall score. Higher values
// outrank lower ones.
type Grade int

// Grade tiers from lowest to highest.
const (
	GradeD Grade = iota + 1
	GradeC
	GradeB
	GradeA
	GradeS
)

// threshold is an inclusive lower bound for a grade.
type threshold struct {
	min   float64
	grade Grade
}

// thresholds is ordered from the highest bound down; the first bound a score
// meets wins, so boundary scores land in the higher tier.
var thresholds = []threshold{
	{min: 9.0, grade: GradeS},
	{min: 8.0, grade: GradeA},
	{min: 6.5, grade: GradeB},
	{min: 5.0, grade: GradeC},
	{min: 1.0, grade: GradeD},
}

// ScoreToGrade maps an overall score to its grade. Scores below the lowest
// bound still map to the lowest tier.
func ScoreToGrade(score float64) Grade {
	for _, t := range thresholds {
		if score >= t.min {
			return t.grade
		}
	}
	return GradeD
}

// LowerBound returns the inclusive lower bound of g.
func (g Grade) LowerBound() float64 {
	for _, t := range thresholds {
		if t.grade == g {
			return t.min
		}
	}
	return 0
}

func (g Grade) String() string {
	switch g {
	case GradeS:
		return "S"
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	default:
		return "unknown"
	}
}

// ParseGrade parses a grade letter.
func ParseGrade(v string) (Grade, error) {
	for _, t := range thresholds {
		if strings.EqualFold(strings.TrimSpace(v), t.grade.String()) {
			return t.grade, nil
		}
	}
	return 0, fmt.Errorf("unknown grade %q", v)
}

// MarshalText encodes the grade as its letter.
func (g Grade) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText decodes a grade letter.
func (g *Grade) UnmarshalText(b []byte) error {
	parsed, err := ParseGrade(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
