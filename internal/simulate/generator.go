package simulate

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/talentscope/internal/domain/model"
)

// Generation constants. Levels and noise are on the 1-10 sub-metric scale.
const (
	daysBetweenEvaluations = 14
	minStartLevel          = 4.0
	startLevelRange        = 3.0
	levelStep              = 0.6
	scoreNoise             = 1.0
)

type trajectory int

const (
	steady trajectory = iota
	improving
	declining
	trajectories
)

var generatedSources = []model.Source{
	model.SourceMatch,
	model.SourceTraining,
	model.SourceScouting,
	model.SourceCamp,
	model.SourcePeriodic,
}

// player is one generated player with evaluations in date order.
type player struct {
	ID          string
	Evaluations []Evaluation
}

// generate builds every player's evaluations. Trajectories rotate through
// steady, improving and declining.
func generate(cfg Config, rng *rand.Rand) []player {
	out := make([]player, 0, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		id := "sim-" + newID(rng)
		out = append(out, player{ID: id, Evaluations: generatePlayer(cfg, rng, id, trajectory(i%int(trajectories)))})
	}
	return out
}

func generatePlayer(cfg Config, rng *rand.Rand, playerID string, t trajectory) []Evaluation {
	level := minStartLevel + rng.Float64()*startLevelRange
	evals := make([]Evaluation, 0, cfg.EvaluationsPerPlayer)
	for i := 0; i < cfg.EvaluationsPerPlayer; i++ {
		date := cfg.StartDate.AddDate(0, 0, i*daysBetweenEvaluations)
		evals = append(evals, Evaluation{
			ID:             newID(rng),
			PlayerID:       playerID,
			EvaluatorName:  "simulator",
			EvaluatorRole:  "coach",
			EvaluationDate: date.Format(model.DateLayout),
			Source:         generatedSources[rng.IntN(len(generatedSources))],
			Scores:         generateScores(rng, level),
		})
		switch t {
		case improving:
			level += levelStep
		case declining:
			level -= levelStep
		}
	}
	return evals
}

// rngReader feeds uuid generation from the run's generator so a seed fixes
// every id as well as every score.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

func newID(rng *rand.Rand) string {
	return uuid.Must(uuid.NewRandomFromReader(rngReader{rng})).String()
}

func generateScores(rng *rand.Rand, level float64) model.UnifiedEvaluationScores {
	category := func(c model.Category) model.CategoryScores {
		out := make(model.CategoryScores, model.SubMetricsPerCategory)
		for _, name := range c.SubMetrics() {
			v := level + (rng.Float64()*2-1)*scoreNoise
			out[name] = clampScore(int(math.Round(v)))
		}
		return out
	}
	return model.UnifiedEvaluationScores{
		Technical: category(model.Technical),
		Tactical:  category(model.Tactical),
		Physical:  category(model.Physical),
		Mental:    category(model.Mental),
		Social:    category(model.Social),
	}
}

func clampScore(v int) int {
	switch {
	case v < model.MinSubMetricScore:
		return model.MinSubMetricScore
	case v > model.MaxSubMetricScore:
		return model.MaxSubMetricScore
	default:
		return v
	}
}

// shuffled returns every evaluation in random order so the server has to
// order histories itself.
func shuffled(players []player, rng *rand.Rand) []Evaluation {
	var all []Evaluation
	for _, p := range players {
		all = append(all, p.Evaluations...)
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all
}

// toModel validates e as the server would.
func (e Evaluation) toModel() (model.UnifiedEvaluation, error) {
	date, err := model.ParseDate(e.EvaluationDate)
	if err != nil {
		return model.UnifiedEvaluation{}, err
	}
	return model.NewUnifiedEvaluation(model.EvaluationInput{
		ID:             e.ID,
		PlayerID:       e.PlayerID,
		EvaluatorName:  e.EvaluatorName,
		EvaluatorRole:  e.EvaluatorRole,
		EvaluationDate: date,
		Source:         e.Source,
		Scores:         e.Scores,
	})
}
