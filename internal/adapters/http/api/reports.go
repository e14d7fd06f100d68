package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/pkg/logger"
)

// ReportDependencies manages scouting reports.
type ReportDependencies interface {
	RegisterScoutingReport(ctx context.Context, r model.ScoutingReport) (model.ScoutingReport, error)
	CompleteScoutingVisit(ctx context.Context, reportID string, in model.EvaluationInput) (model.ScoutingReport, model.UnifiedEvaluation, error)
	GetScoutingEvaluation(ctx context.Context, reportID string) (*model.UnifiedEvaluation, error)
}

// ReportHandler handles /reports requests.
type ReportHandler struct {
	deps   ReportDependencies
	logger logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies, log logger.Logger) *ReportHandler {
	return &ReportHandler{deps: deps, logger: log}
}

type reportRequest struct {
	ID        string `json:"id"`
	PlayerID  string `json:"player_id"`
	ScoutName string `json:"scout_name"`
	VisitDate string `json:"visit_date"`
	Status    string `json:"status"`
}

type completionResponse struct {
	Report     types.Report     `json:"report"`
	Evaluation types.Evaluation `json:"evaluation"`
}

// HandlePostReport handles POST /reports requests.
func (h *ReportHandler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	status, err := model.ParseReportStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	report := model.ScoutingReport{
		ID:        req.ID,
		PlayerID:  req.PlayerID,
		ScoutName: req.ScoutName,
		Status:    status,
	}
	if req.VisitDate != "" {
		d, err := model.ParseDate(req.VisitDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("visit_date: %w", err))
			return
		}
		report.VisitDate = d
	}

	saved, err := h.deps.RegisterScoutingReport(r.Context(), report)
	if err != nil {
		respondError(w, r, h.logger, "register_report", err)
		return
	}
	writeJSON(w, http.StatusCreated, types.NewReport(saved))
}

// HandleComplete handles POST /reports/{id}/complete requests. The body is
// an evaluation without source; player and date default to the report's.
func (h *ReportHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
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

	report, e, err := h.deps.CompleteScoutingVisit(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondError(w, r, h.logger, "complete_visit", err)
		return
	}
	view, err := types.NewEvaluation(e)
	if err != nil {
		respondError(w, r, h.logger, "complete_visit", err)
		return
	}
	writeJSON(w, http.StatusOK, completionResponse{Report: types.NewReport(report), Evaluation: view})
}

// HandleGetEvaluation handles GET /reports/{id}/evaluation requests.
func (h *ReportHandler) HandleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	e, err := h.deps.GetScoutingEvaluation(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, "scouting_evaluation", err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeEvaluation(w, r, h.logger, http.StatusOK, *e)
}
