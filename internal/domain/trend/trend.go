// Package trend classifies a player's growth direction from the overall
// scores of their most recent evaluations.
package trend

import (
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
)

// Default analyzer configuration.
const (
	// DefaultEpsilon is the noise band on the 1-10 scale; deltas inside it are stable.
	DefaultEpsilon = 0.3
	// DefaultWindow compares the latest record with the one before it.
	DefaultWindow = 1
)

// Direction is the growth classification of a history.
type Direction string

// Trend directions. Undefined means fewer than two evaluations exist and is
// never reported as Stable.
const (
	Undefined Direction = ""
	Improving Direction = "improving"
	Stable    Direction = "stable"
	Declining Direction = "declining"
)

// Defined reports whether d carries a classification.
func (d Direction) Defined() bool { return d != Undefined }

func (d Direction) String() string {
	if d == Undefined {
		return "undefined"
	}
	return string(d)
}

// Analyzer classifies trends with a fixed noise threshold and window.
type Analyzer struct {
	epsilon float64
	window  int
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithEpsilon sets the noise threshold. Negative values are ignored.
func WithEpsilon(eps float64) Option {
	return func(a *Analyzer) {
		if eps >= 0 {
			a.epsilon = eps
		}
	}
}

// WithWindow compares the mean of the latest n overall scores with the mean
// of the n before them. n = 1 is the plain two-point comparison.
func WithWindow(n int) Option {
	return func(a *Analyzer) {
		if n >= 1 {
			a.window = n
		}
	}
}

// NewAnalyzer creates an analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		epsilon: DefaultEpsilon,
		window:  DefaultWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = NewAnalyzer()

// Classify classifies latestFirst (ordered most recent first) with the
// default two-point analyzer.
func Classify(latestFirst []model.UnifiedEvaluation) (Direction, error) {
	return defaultAnalyzer.Classify(latestFirst)
}

// Epsilon returns the configured noise threshold.
func (a *Analyzer) Epsilon() float64 { return a.orDefault().epsilon }

// Window returns the configured window size.
func (a *Analyzer) Window() int { return a.orDefault().window }

// Classify returns Undefined for fewer than two evaluations, otherwise the
// direction of Delta relative to the noise threshold.
func (a *Analyzer) Classify(latestFirst []model.UnifiedEvaluation) (Direction, error) {
	a = a.orDefault()
	delta, ok, err := a.Delta(latestFirst)
	if err != nil || !ok {
		return Undefined, err
	}
	return a.classifyDelta(delta), nil
}

// Delta returns recent minus prior overall score. ok is false when fewer
// than two evaluations exist. The window shrinks to half the history when
// the history is shorter than two full windows.
func (a *Analyzer) Delta(latestFirst []model.UnifiedEvaluation) (delta float64, ok bool, err error) {
	a = a.orDefault()
	n := len(latestFirst)
	if n < 2 {
		return 0, false, nil
	}
	w := a.window
	if 2*w > n {
		w = n / 2
	}
	recent, err := meanOverall(latestFirst[:w])
	if err != nil {
		return 0, false, err
	}
	prior, err := meanOverall(latestFirst[w : 2*w])
	if err != nil {
		return 0, false, err
	}
	return recent - prior, true, nil
}

func (a *Analyzer) classifyDelta(delta float64) Direction {
	switch {
	case delta > a.epsilon:
		return Improving
	case delta < -a.epsilon:
		return Declining
	default:
		return Stable
	}
}

func (a *Analyzer) orDefault() *Analyzer {
	if a == nil {
		return defaultAnalyzer
	}
	return a
}

func meanOverall(evals []model.UnifiedEvaluation) (float64, error) {
	sum := 0.0
	for _, e := range evals {
		s, err := scoring.OverallScore(e.Scores)
		if err != nil {
			return 0, err
		}
		sum += s
	}
	return sum / float64(len(evals)), nil
}
