// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/talentscope/internal/adapters/repository"
	service "github.com/okian/talentscope/internal/app"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EvaluationDependencies
	PlayerDependencies
	CandidateDependencies
	ReportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	evaluationHandler *EvaluationHandler
	playerHandler     *PlayerHandler
	candidateHandler  *CandidateHandler
	reportHandler     *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{maxCandidateLimit: defaultMaxCandidateLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	log := o.logger.Named("api")

	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		evaluationHandler: NewEvaluationHandler(deps, log),
		playerHandler:     NewPlayerHandler(deps, log),
		candidateHandler:  NewCandidateHandler(deps, o.maxCandidateLimit, log),
		reportHandler:     NewReportHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /evaluations", MetricsMiddleware(s.evaluationHandler.HandlePostEvaluation, "evaluations"))
	mux.HandleFunc("GET /evaluations/{id}", MetricsMiddleware(s.evaluationHandler.HandleGetEvaluation, "evaluation"))

	mux.HandleFunc("GET /players/{id}/history", MetricsMiddleware(s.playerHandler.HandleHistory, "player_history"))
	mux.HandleFunc("GET /players/{id}/latest", MetricsMiddleware(s.playerHandler.HandleLatest, "player_latest"))
	mux.HandleFunc("GET /players/{id}/trend", MetricsMiddleware(s.playerHandler.HandleTrend, "player_trend"))
	mux.HandleFunc("GET /players/{id}/radar", MetricsMiddleware(s.playerHandler.HandleRadar, "player_radar"))
	mux.HandleFunc("GET /players/{id}/scouting-history", MetricsMiddleware(s.playerHandler.HandleScoutingHistory, "player_scouting_history"))

	mux.HandleFunc("GET /candidates", MetricsMiddleware(s.candidateHandler.HandleGetCandidates, "candidates"))

	mux.HandleFunc("POST /reports", MetricsMiddleware(s.reportHandler.HandlePostReport, "reports"))
	mux.HandleFunc("POST /reports/{id}/complete", MetricsMiddleware(s.reportHandler.HandleComplete, "report_complete"))
	mux.HandleFunc("GET /reports/{id}/evaluation", MetricsMiddleware(s.reportHandler.HandleGetEvaluation, "report_evaluation"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respondError translates upstream errors to a status and logs server-side
// failures.
func respondError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case isBadRequest(err):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrEvaluationNotFound), errors.Is(err, repository.ErrReportNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDuplicateEvaluation), errors.Is(err, repository.ErrDuplicateReport),
		errors.Is(err, repository.ErrReportCompleted), errors.Is(err, repository.ErrReportCancelled):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

var badRequestKinds = []error{
	ErrBadRequest,
	model.ErrMissingID,
	model.ErrMissingPlayerID,
	model.ErrMissingDate,
	model.ErrInvalidSource,
	model.ErrInvalidCategory,
	model.ErrMissingSubMetric,
	model.ErrUnknownSubMetric,
	model.ErrScoreOutOfRange,
	model.ErrInvalidStatus,
	service.ErrInvalidLimit,
	service.ErrPlayerMismatch,
}

func isBadRequest(err error) bool {
	for _, kind := range badRequestKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
