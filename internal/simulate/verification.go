package simulate

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/okian/talentscope/internal/domain/history"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
	"github.com/okian/talentscope/internal/domain/trend"
	"github.com/okian/talentscope/internal/domain/types"
)

const scoreTolerance = 1e-9

// trendSettings reads the server's trend configuration from GET /stats so
// the local computation uses the same analyzer.
func trendSettings(ctx context.Context, client *HTTPClient) (*trend.Analyzer, error) {
	var stats map[string]interface{}
	if err := client.getJSON(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	var opts []trend.Option
	if eps, ok := stats["trendEpsilon"].(float64); ok {
		opts = append(opts, trend.WithEpsilon(eps))
	}
	if w, ok := stats["trendWindow"].(float64); ok {
		opts = append(opts, trend.WithWindow(int(w)))
	}
	return trend.NewAnalyzer(opts...), nil
}

// verifyPlayer compares the served history of p with the locally built one
// and returns one message per difference.
func verifyPlayer(ctx context.Context, client *HTTPClient, analyzer *trend.Analyzer, p player) ([]string, error) {
	evals := make([]model.UnifiedEvaluation, 0, len(p.Evaluations))
	for _, e := range p.Evaluations {
		m, err := e.toModel()
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", p.ID, err)
		}
		evals = append(evals, m)
	}
	want, err := history.Build(p.ID, evals, analyzer)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", p.ID, err)
	}

	var got *types.History
	if err := client.getJSON(ctx, "/players/"+url.PathEscape(p.ID)+"/history", &got); err != nil {
		return nil, err
	}
	return compareHistory(p.ID, want, got), nil
}

func compareHistory(playerID string, want *history.PlayerEvaluationHistory, got *types.History) []string {
	var diffs []string
	add := func(format string, args ...interface{}) {
		diffs = append(diffs, playerID+": "+fmt.Sprintf(format, args...))
	}

	switch {
	case want == nil && got == nil:
		return nil
	case got == nil:
		add("history missing")
		return diffs
	case want == nil:
		add("unexpected history with %d evaluations", got.TotalEvaluations)
		return diffs
	}

	if got.TotalEvaluations != want.TotalEvaluations || len(got.Evaluations) != len(want.Evaluations) {
		add("total evaluations %d, want %d", got.TotalEvaluations, want.TotalEvaluations)
		return diffs
	}
	for i, e := range want.Evaluations {
		served := got.Evaluations[i]
		if served.ID != e.ID {
			add("position %d is %s, want %s", i, served.ID, e.ID)
			continue
		}
		overall, err := scoring.OverallScore(e.Scores)
		if err != nil {
			add("evaluation %s: %v", e.ID, err)
			continue
		}
		if math.Abs(served.OverallScore-overall) > scoreTolerance {
			add("evaluation %s overall %.4f, want %.4f", e.ID, served.OverallScore, overall)
		}
	}
	if got.LatestEvaluation == nil || got.LatestEvaluation.ID != want.LatestEvaluation.ID {
		add("latest evaluation differs, want %s", want.LatestEvaluation.ID)
	}
	if wantTrend := types.TrendValue(want.Trend); !sameTrend(got.Trend, wantTrend) {
		add("trend %s, want %s", trendString(got.Trend), want.Trend)
	}
	return diffs
}

func sameTrend(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func trendString(t *string) string {
	if t == nil {
		return trend.Undefined.String()
	}
	return *t
}
