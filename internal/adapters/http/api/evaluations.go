package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/pkg/logger"
)

// EvaluationDependencies records and fetches single evaluations.
type EvaluationDependencies interface {
	RecordEvaluation(ctx context.Context, in model.EvaluationInput) (model.UnifiedEvaluation, error)
	GetEvaluation(ctx context.Context, id string) (model.UnifiedEvaluation, error)
}

// EvaluationHandler handles /evaluations requests.
type EvaluationHandler struct {
	deps   EvaluationDependencies
	logger logger.Logger
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(deps EvaluationDependencies, log logger.Logger) *EvaluationHandler {
	return &EvaluationHandler{deps: deps, logger: log}
}

// evaluationRequest is the body of POST /evaluations and
// POST /reports/{id}/complete.
type evaluationRequest struct {
	ID             string                        `json:"id"`
	PlayerID       string                        `json:"player_id"`
	EvaluatorName  string                        `json:"evaluator_name"`
	EvaluatorRole  string                        `json:"evaluator_role"`
	EvaluationDate string                        `json:"evaluation_date"`
	Source         string                        `json:"source"`
	Scores         model.UnifiedEvaluationScores `json:"scores"`
	Comments       string                        `json:"comments"`
	RelatedEvent   string                        `json:"related_event"`
}

// input converts the request. Empty date and source stay zero so callers can
// fill them in.
func (req evaluationRequest) input() (model.EvaluationInput, error) {
	in := model.EvaluationInput{
		ID:            req.ID,
		PlayerID:      req.PlayerID,
		EvaluatorName: req.EvaluatorName,
		EvaluatorRole: req.EvaluatorRole,
		Scores:        req.Scores,
		Comments:      req.Comments,
		RelatedEvent:  req.RelatedEvent,
	}
	if req.EvaluationDate != "" {
		d, err := model.ParseDate(req.EvaluationDate)
		if err != nil {
			return model.EvaluationInput{}, fmt.Errorf("evaluation_date: %w", err)
		}
		in.EvaluationDate = d
	}
	if req.Source != "" {
		s, err := model.ParseSource(req.Source)
		if err != nil {
			return model.EvaluationInput{}, fmt.Errorf("source: %w", err)
		}
		in.Source = s
	}
	return in, nil
}

// HandlePostEvaluation handles POST /evaluations requests.
func (h *EvaluationHandler) HandlePostEvaluation(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if in.Source == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("source: %w", model.ErrInvalidSource))
		return
	}

	e, err := h.deps.RecordEvaluation(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, "record_evaluation", err)
		return
	}
	writeEvaluation(w, r, h.logger, http.StatusCreated, e)
}

// HandleGetEvaluation handles GET /evaluations/{id} requests.
func (h *EvaluationHandler) HandleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	e, err := h.deps.GetEvaluation(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, "get_evaluation", err)
		return
	}
	writeEvaluation(w, r, h.logger, http.StatusOK, e)
}

func writeEvaluation(w http.ResponseWriter, r *http.Request, log logger.Logger, status int, e model.UnifiedEvaluation) {
	view, err := types.NewEvaluation(e)
	if err != nil {
		respondError(w, r, log, "evaluation_view", err)
		return
	}
	writeJSON(w, status, view)
}
