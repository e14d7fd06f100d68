package model

import "fmt"

// Score bounds for a single sub-metric.
const (
	MinSubMetricScore = 1
	MaxSubMetricScore = 10

	// SubMetricsPerCategory is the fixed arity of every category.
	SubMetricsPerCategory = 8
)

// Category is one of the five evaluation dimensions.
type Category string

// Evaluation categories in display order.
const (
	Technical Category = "technical"
	Tactical  Category = "tactical"
	Physical  Category = "physical"
	Mental    Category = "mental"
	Social    Category = "social"
)

// Categories lists every category in display order.
var Categories = []Category{Technical, Tactical, Physical, Mental, Social}

var subMetrics = map[Category][SubMetricsPerCategory]string{
	Technical: {"first_touch", "passing", "dribbling", "shooting", "heading", "crossing", "ball_control", "weak_foot"},
	Tactical:  {"positioning", "decision_making", "off_the_ball", "defensive_awareness", "game_reading", "pressing", "transition", "spatial_awareness"},
	Physical:  {"speed", "acceleration", "agility", "stamina", "strength", "balance", "jumping", "flexibility"},
	Mental:    {"concentration", "composure", "confidence", "work_rate", "determination", "leadership", "coachability", "resilience"},
	Social:    {"communication", "teamwork", "discipline", "respect", "sportsmanship", "attitude", "punctuality", "empathy"},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := subMetrics[c]
	return ok
}

// SubMetrics returns the eight sub-metric names of c in canonical order.
func (c Category) SubMetrics() []string {
	names, ok := subMetrics[c]
	if !ok {
		return nil
	}
	return names[:]
}

// CategoryScores maps sub-metric names to 1..10 scores for one category.
type CategoryScores map[string]int

// Uniform returns scores for category c with every sub-metric set to v.
func Uniform(c Category, v int) CategoryScores {
	out := make(CategoryScores, SubMetricsPerCategory)
	for _, name := range c.SubMetrics() {
		out[name] = v
	}
	return out
}

// Validate checks that s holds exactly the sub-metrics of c, each in range.
func (s CategoryScores) Validate(c Category) error {
	names := c.SubMetrics()
	if names == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	for _, name := range names {
		v, ok := s[name]
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingSubMetric, c, name)
		}
		if v < MinSubMetricScore || v > MaxSubMetricScore {
			return fmt.Errorf("%w: %s.%s=%d", ErrScoreOutOfRange, c, name, v)
		}
	}
	if len(s) != len(names) {
		for name := range s {
			if !contains(names, name) {
				return fmt.Errorf("%w: %s.%s", ErrUnknownSubMetric, c, name)
			}
		}
	}
	return nil
}

func (s CategoryScores) clone() CategoryScores {
	if s == nil {
		return nil
	}
	out := make(CategoryScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UnifiedEvaluationScores groups the five category score sets of one record.
type UnifiedEvaluationScores struct {
	Technical CategoryScores `json:"technical" yaml:"technical" koanf:"technical"`
	Tactical  CategoryScores `json:"tactical" yaml:"tactical" koanf:"tactical"`
	Physical  CategoryScores `json:"physical" yaml:"physical" koanf:"physical"`
	Mental    CategoryScores `json:"mental" yaml:"mental" koanf:"mental"`
	Social    CategoryScores `json:"social" yaml:"social" koanf:"social"`
}

// Category returns the score set for c, or nil for an unknown category.
func (u UnifiedEvaluationScores) Category(c Category) CategoryScores {
	switch c {
	case Technical:
		return u.Technical
	case Tactical:
		return u.Tactical
	case Physical:
		return u.Physical
	case Mental:
		return u.Mental
	case Social:
		return u.Social
	default:
		return nil
	}
}

// Validate checks every category.
func (u UnifiedEvaluationScores) Validate() error {
	for _, c := range Categories {
		if err := u.Category(c).Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (u UnifiedEvaluationScores) Clone() UnifiedEvaluationScores {
	return UnifiedEvaluationScores{
		Technical: u.Technical.clone(),
		Tactical:  u.Tactical.clone(),
		Physical:  u.Physical.clone(),
		Mental:    u.Mental.clone(),
		Social:    u.Social.clone(),
	}
}

// UniformScores returns a full score set with every sub-metric equal to v.
func UniformScores(v int) UnifiedEvaluationScores {
	return UnifiedEvaluationScores{
		Technical: Uniform(Technical, v),
		Tactical:  Uniform(Tactical, v),
		Physical:  Uniform(Physical, v),
		Mental:    Uniform(Mental, v),
		Social:    Uniform(Social, v),
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
