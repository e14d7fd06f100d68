// Package history groups evaluation records per player, orders them most
// recent first, and derives the player's trend.
package history

import (
	"sort"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/trend"
)

// PlayerEvaluationHistory is a derived, non-persisted view of one player's
// evaluations. It is rebuilt on every query.
type PlayerEvaluationHistory struct {
	PlayerID         string
	Evaluations      []model.UnifiedEvaluation // evaluation date desc, ties in insertion order
	LatestEvaluation model.UnifiedEvaluation   // Evaluations[0]
	TotalEvaluations int
	Trend            trend.Direction // Undefined with a single record
}

// Build returns the history of playerID drawn from all, or nil when the
// player has no evaluations. A nil analyzer uses the default two-point rule.
func Build(playerID string, all []model.UnifiedEvaluation, analyzer *trend.Analyzer) (*PlayerEvaluationHistory, error) {
	evals := ForPlayer(playerID, all)
	if len(evals) == 0 {
		return nil, nil
	}
	return fromOrdered(playerID, evals, analyzer)
}

// BuildAll returns one history per player in order of first appearance in all.
func BuildAll(all []model.UnifiedEvaluation, analyzer *trend.Analyzer) ([]*PlayerEvaluationHistory, error) {
	var order []string
	groups := make(map[string][]model.UnifiedEvaluation)
	for _, e := range all {
		if _, ok := groups[e.PlayerID]; !ok {
			order = append(order, e.PlayerID)
		}
		groups[e.PlayerID] = append(groups[e.PlayerID], e)
	}
	out := make([]*PlayerEvaluationHistory, 0, len(order))
	for _, id := range order {
		evals := groups[id]
		SortLatestFirst(evals)
		h, err := fromOrdered(id, evals, analyzer)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// ForPlayer returns playerID's evaluations ordered most recent first. The
// result is a fresh slice; all is not reordered.
func ForPlayer(playerID string, all []model.UnifiedEvaluation) []model.UnifiedEvaluation {
	var out []model.UnifiedEvaluation
	for _, e := range all {
		if e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	SortLatestFirst(out)
	return out
}

// SortLatestFirst orders evals by evaluation date descending. The sort is
// stable: records sharing a date keep their insertion order.
func SortLatestFirst(evals []model.UnifiedEvaluation) {
	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].EvaluationDate.After(evals[j].EvaluationDate)
	})
}

func fromOrdered(playerID string, evals []model.UnifiedEvaluation, analyzer *trend.Analyzer) (*PlayerEvaluationHistory, error) {
	dir, err := analyzer.Classify(evals)
	if err != nil {
		return nil, err
	}
	return &PlayerEvaluationHistory{
		PlayerID:         playerID,
		Evaluations:      evals,
		LatestEvaluation: evals[0],
		TotalEvaluations: len(evals),
		Trend:            dir,
	}, nil
}

// Filter returns the evaluations of h accepted by keep, preserving order.
func (h *PlayerEvaluationHistory) Filter(keep func(model.UnifiedEvaluation) bool) []model.UnifiedEvaluation {
	if h == nil {
		return nil
	}
	var out []model.UnifiedEvaluation
	for _, e := range h.Evaluations {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
