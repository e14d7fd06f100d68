package api

import (
	"context"
	"net/http"

	"github.com/okian/talentscope/internal/domain/history"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/pkg/logger"
)

// PlayerDependencies answers per-player queries.
type PlayerDependencies interface {
	GetPlayerEvaluationHistory(ctx context.Context, playerID string) (*history.PlayerEvaluationHistory, error)
	GetLatestEvaluation(ctx context.Context, playerID string) (*model.UnifiedEvaluation, error)
	TrendDetail(ctx context.Context, playerID string) (types.Trend, error)
	GetScoutingEvaluationHistory(ctx context.Context, playerID string) ([]model.UnifiedEvaluation, error)
}

// PlayerHandler handles /players/{id}/... requests. Absent results encode
// as JSON null with status 200.
type PlayerHandler struct {
	deps   PlayerDependencies
	logger logger.Logger
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies, log logger.Logger) *PlayerHandler {
	return &PlayerHandler{deps: deps, logger: log}
}

// HandleHistory handles GET /players/{id}/history requests.
func (h *PlayerHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("id")
	hist, err := h.deps.GetPlayerEvaluationHistory(r.Context(), playerID)
	if err != nil {
		respondError(w, r, h.logger, "history", err)
		return
	}
	if hist == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	view, err := types.NewHistory(playerID, hist)
	if err != nil {
		respondError(w, r, h.logger, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleLatest handles GET /players/{id}/latest requests.
func (h *PlayerHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	e, err := h.deps.GetLatestEvaluation(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, "latest", err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeEvaluation(w, r, h.logger, http.StatusOK, *e)
}

// HandleTrend handles GET /players/{id}/trend requests.
func (h *PlayerHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.TrendDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, "trend", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleRadar handles GET /players/{id}/radar requests.
func (h *PlayerHandler) HandleRadar(w http.ResponseWriter, r *http.Request) {
	e, err := h.deps.GetLatestEvaluation(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, "radar", err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	radar, err := types.NewRadar(*e)
	if err != nil {
		respondError(w, r, h.logger, "radar", err)
		return
	}
	writeJSON(w, http.StatusOK, radar)
}

// HandleScoutingHistory handles GET /players/{id}/scouting-history requests.
func (h *PlayerHandler) HandleScoutingHistory(w http.ResponseWriter, r *http.Request) {
	evals, err := h.deps.GetScoutingEvaluationHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, "scouting_history", err)
		return
	}
	views, err := types.NewEvaluations(evals)
	if err != nil {
		respondError(w, r, h.logger, "scouting_history", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
