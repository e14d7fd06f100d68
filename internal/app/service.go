// Package service provides the evaluation engine that implements the
// dependencies required by the HTTP API and the operator CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talentscope/internal/adapters/repository"
	"github.com/okian/talentscope/internal/adapters/seed"
	"github.com/okian/talentscope/internal/domain/history"
	"github.com/okian/talentscope/internal/domain/legacy"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
	"github.com/okian/talentscope/internal/domain/trend"
	"github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/pkg/logger"
	"github.com/okian/talentscope/pkg/metrics"
)

// Query outcome labels.
const (
	outcomeHit   = "hit"
	outcomeMiss  = "miss"
	outcomeError = "error"
)

// Service records evaluations and scouting reports and answers history,
// trend, candidate and radar queries over them.
type Service struct {
	mu sync.RWMutex

	evaluations repository.EvaluationStore
	reports     repository.ReportStore
	owned       *repository.MemoryStore // created by Start, closed by Stop
	analyzer    *trend.Analyzer

	// Serializes scouting visit completion so a report is linked to exactly
	// one evaluation.
	completeMu sync.Mutex

	// Configuration
	trendEpsilon float64
	trendWindow  int
	seedFile     string
	newID        func() string

	// State
	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		trendEpsilon: trend.DefaultEpsilon,
		trendWindow:  trend.DefaultWindow,
		newID:        uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.analyzer = trend.NewAnalyzer(trend.WithEpsilon(s.trendEpsilon), trend.WithWindow(s.trendWindow))
	return s
}

// Start creates any missing stores and loads the seed dataset, if configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting evaluation service...")

	if s.evaluations == nil || s.reports == nil {
		s.owned = repository.NewMemoryStore(ctx)
		if s.evaluations == nil {
			s.evaluations = s.owned
		}
		if s.reports == nil {
			s.reports = s.owned
		}
		s.logger.Info(ctx, "using in-memory store")
	}

	if s.seedFile != "" {
		if err := s.loadSeed(ctx); err != nil {
			s.closeOwned()
			return err
		}
	}

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Float64("trendEpsilon", s.trendEpsilon),
		logger.Int("trendWindow", s.trendWindow),
		logger.Int("evaluations", s.evaluations.Count(ctx)),
		logger.Int("reports", s.reports.ReportCount(ctx)),
	)
	return nil
}

func (s *Service) loadSeed(ctx context.Context) error {
	ds, err := seed.Load(ctx, s.seedFile)
	if err != nil {
		s.logger.Error(ctx, "failed to load seed dataset", logger.String("path", s.seedFile), logger.Error(err))
		return err
	}
	for _, e := range ds.Evaluations {
		if err := s.evaluations.Append(ctx, e); err != nil {
			return fmt.Errorf("seed evaluation %s: %w", e.ID, err)
		}
		metrics.RecordEvaluationRecorded(string(e.Source))
	}
	for _, r := range ds.Reports {
		if err := s.reports.PutReport(ctx, r); err != nil {
			return fmt.Errorf("seed report %s: %w", r.ID, err)
		}
	}
	s.logger.Info(ctx, "seed dataset loaded",
		logger.String("path", s.seedFile),
		logger.Int("evaluations", len(ds.Evaluations)),
		logger.Int("reports", len(ds.Reports)),
	)
	return nil
}

// Stop releases the stores created by Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping evaluation service...")
	s.closeOwned()
	s.started = false
	s.logger.Info(context.Background(), "evaluation service stopped")
}

func (s *Service) closeOwned() {
	if s.owned == nil {
		return
	}
	_ = s.owned.Close()
	if s.evaluations == repository.EvaluationStore(s.owned) {
		s.evaluations = nil
	}
	if s.reports == repository.ReportStore(s.owned) {
		s.reports = nil
	}
	s.owned = nil
}

func (s *Service) stores() (repository.EvaluationStore, repository.ReportStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.evaluations, s.reports, nil
}

// RecordEvaluation validates in and appends it as a new evaluation. An empty
// id is replaced by a generated one.
func (s *Service) RecordEvaluation(ctx context.Context, in model.EvaluationInput) (model.UnifiedEvaluation, error) {
	evaluations, _, err := s.stores()
	if err != nil {
		return model.UnifiedEvaluation{}, err
	}
	e, sum, err := s.prepareEvaluation(ctx, in)
	if err != nil {
		return model.UnifiedEvaluation{}, err
	}
	if err := evaluations.Append(ctx, e); err != nil {
		metrics.RecordEvaluationRejected(rejectReason(err))
		return model.UnifiedEvaluation{}, err
	}
	s.evaluationRecorded(ctx, e, sum)
	return e.Clone(), nil
}

// prepareEvaluation builds and scores the evaluation without storing it.
func (s *Service) prepareEvaluation(ctx context.Context, in model.EvaluationInput) (model.UnifiedEvaluation, scoring.Summary, error) {
	if in.ID == "" {
		in.ID = s.newID()
	}

	start := time.Now()
	e, err := model.NewUnifiedEvaluation(in)
	if err != nil {
		metrics.RecordEvaluationRejected(rejectReason(err))
		s.logger.Debug(ctx, "evaluation rejected",
			logger.String("id", in.ID), logger.String("playerID", in.PlayerID), logger.Error(err))
		return model.UnifiedEvaluation{}, scoring.Summary{}, err
	}
	sum, err := scoring.Summarize(e)
	if err != nil {
		metrics.RecordEvaluationRejected(rejectReason(err))
		return model.UnifiedEvaluation{}, scoring.Summary{}, err
	}
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	return e, sum, nil
}

func (s *Service) evaluationRecorded(ctx context.Context, e model.UnifiedEvaluation, sum scoring.Summary) {
	metrics.RecordEvaluationRecorded(string(e.Source))
	metrics.RecordGrade(sum.Grade.String())
	s.logger.Debug(ctx, "evaluation recorded",
		logger.String("id", e.ID),
		logger.String("playerID", e.PlayerID),
		logger.String("source", string(e.Source)),
		logger.Float64("overall", sum.Overall),
		logger.String("grade", sum.Grade.String()),
	)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrScoreOutOfRange):
		return "score_out_of_range"
	case errors.Is(err, model.ErrMissingSubMetric):
		return "missing_sub_metric"
	case errors.Is(err, model.ErrUnknownSubMetric):
		return "unknown_sub_metric"
	case errors.Is(err, model.ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, model.ErrInvalidSource):
		return "invalid_source"
	case errors.Is(err, model.ErrMissingPlayerID), errors.Is(err, model.ErrMissingID), errors.Is(err, model.ErrMissingDate):
		return "missing_field"
	case errors.Is(err, repository.ErrDuplicateEvaluation):
		return "duplicate"
	default:
		return "other"
	}
}

// GetEvaluation returns the evaluation with id or repository.ErrEvaluationNotFound.
func (s *Service) GetEvaluation(ctx context.Context, id string) (model.UnifiedEvaluation, error) {
	evaluations, _, err := s.stores()
	if err != nil {
		return model.UnifiedEvaluation{}, err
	}
	return evaluations.Get(ctx, id)
}

// RegisterScoutingReport stores a planned or cancelled scouting visit.
// Completed visits go through CompleteScoutingVisit.
func (s *Service) RegisterScoutingReport(ctx context.Context, r model.ScoutingReport) (model.ScoutingReport, error) {
	_, reports, err := s.stores()
	if err != nil {
		return model.ScoutingReport{}, err
	}
	if r.ID == "" {
		r.ID = s.newID()
	}
	switch {
	case r.PlayerID == "":
		return model.ScoutingReport{}, fmt.Errorf("report %s: %w", r.ID, model.ErrMissingPlayerID)
	case r.VisitDate.IsZero():
		return model.ScoutingReport{}, fmt.Errorf("report %s: %w", r.ID, model.ErrMissingDate)
	}
	if r.Status == "" {
		r.Status = model.ReportPlanned
	}
	if r.Status == model.ReportCompleted || r.EvaluationID != "" {
		return model.ScoutingReport{}, fmt.Errorf("report %s: %w: complete the visit to link an evaluation", r.ID, model.ErrInvalidStatus)
	}
	r.VisitDate = model.CalendarDate(r.VisitDate)

	if err := reports.PutReport(ctx, r); err != nil {
		return model.ScoutingReport{}, err
	}
	metrics.RecordReportRegistered()
	s.logger.Debug(ctx, "scouting report registered",
		logger.String("id", r.ID), logger.String("playerID", r.PlayerID), logger.String("status", string(r.Status)))
	return r, nil
}

// CompleteScoutingVisit records the evaluation written for a planned visit
// and links it to the report. The evaluation source is always scouting; the
// player and date default to the report's.
func (s *Service) CompleteScoutingVisit(ctx context.Context, reportID string, in model.EvaluationInput) (model.ScoutingReport, model.UnifiedEvaluation, error) {
	evaluations, reports, err := s.stores()
	if err != nil {
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, err
	}

	s.completeMu.Lock()
	defer s.completeMu.Unlock()

	r, err := reports.GetReport(ctx, reportID)
	if err != nil {
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, err
	}
	switch r.Status {
	case model.ReportCompleted:
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, repository.ErrReportCompleted
	case model.ReportCancelled:
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, repository.ErrReportCancelled
	}

	if in.PlayerID == "" {
		in.PlayerID = r.PlayerID
	}
	if in.PlayerID != r.PlayerID {
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, fmt.Errorf("%w: report %s is for %s", ErrPlayerMismatch, r.ID, r.PlayerID)
	}
	if in.EvaluationDate.IsZero() {
		in.EvaluationDate = r.VisitDate
	}
	if in.EvaluatorName == "" {
		in.EvaluatorName = r.ScoutName
	}
	in.Source = model.SourceScouting

	e, sum, err := s.prepareEvaluation(ctx, in)
	if err != nil {
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, err
	}
	done, err := s.completeVisit(ctx, evaluations, reports, r.ID, e)
	if err != nil {
		metrics.RecordEvaluationRejected(rejectReason(err))
		return model.ScoutingReport{}, model.UnifiedEvaluation{}, err
	}
	s.evaluationRecorded(ctx, e, sum)
	metrics.RecordReportCompleted()
	s.logger.Info(ctx, "scouting visit completed",
		logger.String("reportID", done.ID), logger.String("evaluationID", e.ID), logger.String("playerID", done.PlayerID))
	return done, e.Clone(), nil
}

// completeVisit stores e and links it to the report. When both stores are
// one VisitCompleter the two writes are a single step. Otherwise a report
// store failure after the append leaves e stored and unlinked.
func (s *Service) completeVisit(ctx context.Context, evaluations repository.EvaluationStore, reports repository.ReportStore, reportID string, e model.UnifiedEvaluation) (model.ScoutingReport, error) {
	if vc, ok := reports.(repository.VisitCompleter); ok && sameStore(evaluations, reports) {
		return vc.CompleteVisit(ctx, reportID, e)
	}
	if err := evaluations.Append(ctx, e); err != nil {
		return model.ScoutingReport{}, err
	}
	done, err := reports.MarkCompleted(ctx, reportID, e.ID)
	if err != nil {
		s.logger.Error(ctx, "scouting evaluation stored without completing its report",
			logger.String("reportID", reportID), logger.String("evaluationID", e.ID), logger.Error(err))
		return model.ScoutingReport{}, err
	}
	return done, nil
}

func sameStore(evaluations repository.EvaluationStore, reports repository.ReportStore) bool {
	return any(evaluations) == any(reports)
}

// GetPlayerEvaluationHistory returns the player's history, or nil when the
// player has no evaluations.
func (s *Service) GetPlayerEvaluationHistory(ctx context.Context, playerID string) (*history.PlayerEvaluationHistory, error) {
	start := time.Now()
	h, err := s.history(ctx, playerID)
	recordQuery("history", h != nil, err, start)
	return h, err
}

func (s *Service) history(ctx context.Context, playerID string) (*history.PlayerEvaluationHistory, error) {
	evaluations, _, err := s.stores()
	if err != nil {
		return nil, err
	}
	return history.Build(playerID, evaluations.ByPlayer(ctx, playerID), s.analyzer)
}

// GetLatestEvaluation returns the most recent evaluation of the player, or
// nil when none exists. Same-date records resolve to the first inserted.
func (s *Service) GetLatestEvaluation(ctx context.Context, playerID string) (*model.UnifiedEvaluation, error) {
	start := time.Now()
	h, err := s.history(ctx, playerID)
	recordQuery("latest", h != nil, err, start)
	if err != nil || h == nil {
		return nil, err
	}
	latest := h.LatestEvaluation
	return &latest, nil
}

// GetEvaluationCount returns how many evaluations the player has.
func (s *Service) GetEvaluationCount(ctx context.Context, playerID string) (int, error) {
	start := time.Now()
	evaluations, _, err := s.stores()
	if err != nil {
		recordQuery("count", false, err, start)
		return 0, err
	}
	n := len(evaluations.ByPlayer(ctx, playerID))
	recordQuery("count", n > 0, nil, start)
	return n, nil
}

// GetGrowthTrend returns the player's trend. It is trend.Undefined when the
// player has fewer than two evaluations.
func (s *Service) GetGrowthTrend(ctx context.Context, playerID string) (trend.Direction, error) {
	start := time.Now()
	h, err := s.history(ctx, playerID)
	recordQuery("trend", h != nil, err, start)
	if err != nil || h == nil {
		return trend.Undefined, err
	}
	metrics.RecordTrend(h.Trend.String())
	return h.Trend, nil
}

// TrendDetail returns the trend of the player together with the delta it
// was derived from.
func (s *Service) TrendDetail(ctx context.Context, playerID string) (types.Trend, error) {
	out := types.Trend{PlayerID: playerID, Epsilon: s.analyzer.Epsilon()}
	h, err := s.history(ctx, playerID)
	if err != nil || h == nil {
		return out, err
	}
	delta, ok, err := s.analyzer.Delta(h.Evaluations)
	if err != nil {
		return out, err
	}
	out.Evaluations = h.TotalEvaluations
	out.Trend = types.TrendValue(h.Trend)
	if ok {
		out.Delta = &delta
	}
	metrics.RecordTrend(h.Trend.String())
	return out, nil
}

// GetScoutingEvaluationHistory returns the evaluations linked from the
// player's completed scouting reports, most recent first.
func (s *Service) GetScoutingEvaluationHistory(ctx context.Context, playerID string) ([]model.UnifiedEvaluation, error) {
	start := time.Now()
	evaluations, reports, err := s.stores()
	if err != nil {
		recordQuery("scouting_history", false, err, start)
		return nil, err
	}

	out := []model.UnifiedEvaluation{}
	for _, r := range reports.ReportsByPlayer(ctx, playerID) {
		if !r.Completed() {
			continue
		}
		e, err := evaluations.Get(ctx, r.EvaluationID)
		if err != nil {
			recordQuery("scouting_history", false, err, start)
			return nil, fmt.Errorf("report %s: %w", r.ID, err)
		}
		out = append(out, e)
	}
	history.SortLatestFirst(out)
	recordQuery("scouting_history", len(out) > 0, nil, start)
	return out, nil
}

// GetScoutingEvaluation returns the evaluation linked to a scouting report,
// or nil while the visit is not completed. Unknown reports return
// repository.ErrReportNotFound.
func (s *Service) GetScoutingEvaluation(ctx context.Context, reportID string) (*model.UnifiedEvaluation, error) {
	start := time.Now()
	evaluations, reports, err := s.stores()
	if err != nil {
		recordQuery("scouting_evaluation", false, err, start)
		return nil, err
	}
	r, err := reports.GetReport(ctx, reportID)
	if err != nil {
		recordQuery("scouting_evaluation", false, err, start)
		return nil, err
	}
	if !r.Completed() {
		recordQuery("scouting_evaluation", false, nil, start)
		return nil, nil
	}
	e, err := evaluations.Get(ctx, r.EvaluationID)
	recordQuery("scouting_evaluation", err == nil, err, start)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetLegacyRadar returns the five-point radar chart of the player's latest
// evaluation, or nil when the player has no evaluations.
func (s *Service) GetLegacyRadar(ctx context.Context, playerID string) (*legacy.RadarChart, error) {
	start := time.Now()
	h, err := s.history(ctx, playerID)
	recordQuery("radar", h != nil, err, start)
	if err != nil || h == nil {
		return nil, err
	}
	chart, err := legacy.Radar(h.LatestEvaluation)
	if err != nil {
		return nil, err
	}
	return &chart, nil
}

// Candidates ranks players by the overall score of their latest evaluation,
// highest first, then by player id. Equal scores share a rank.
func (s *Service) Candidates(ctx context.Context, limit int) ([]types.CandidateEntry, error) {
	start := time.Now()
	if limit < 1 {
		metrics.RecordErrorByComponent("service", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	evaluations, _, err := s.stores()
	if err != nil {
		return nil, err
	}

	histories, err := history.BuildAll(evaluations.Snapshot(ctx), s.analyzer)
	if err != nil {
		recordQuery("candidates", false, err, start)
		return nil, err
	}

	entries := make([]types.CandidateEntry, 0, len(histories))
	for _, h := range histories {
		sum, err := scoring.Summarize(h.LatestEvaluation)
		if err != nil {
			recordQuery("candidates", false, err, start)
			return nil, err
		}
		entries = append(entries, types.CandidateEntry{
			PlayerID:      h.PlayerID,
			LatestOverall: sum.Overall,
			Grade:         sum.Grade,
			Trend:         types.TrendValue(h.Trend),
			Evaluations:   h.TotalEvaluations,
			LatestDate:    h.LatestEvaluation.EvaluationDate.Format(model.DateLayout),
		})
	}
	sortCandidates(entries)
	assignRanksWithTies(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	recordQuery("candidates", len(entries) > 0, nil, start)
	return entries, nil
}

func sortCandidates(entries []types.CandidateEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LatestOverall != entries[j].LatestOverall {
			return entries[i].LatestOverall > entries[j].LatestOverall
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}

// assignRanksWithTies uses competition ranking: 1, 1, 3.
func assignRanksWithTies(entries []types.CandidateEntry) {
	for i := range entries {
		if i > 0 && entries[i].LatestOverall == entries[i-1].LatestOverall {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"trendEpsilon": s.trendEpsilon,
		"trendWindow":  s.trendWindow,
		"seedFile":     s.seedFile,
	}

	if s.started {
		evaluations := s.evaluations.Count(ctx)
		players := len(s.evaluations.PlayerIDs(ctx))
		reports := s.reports.ReportCount(ctx)

		stats["evaluations"] = evaluations
		stats["players"] = players
		stats["reports"] = reports

		metrics.UpdateStoreEvaluations(evaluations)
		metrics.UpdateStorePlayers(players)
		metrics.UpdateStoreReports(reports)
	}

	return stats
}

func recordQuery(operation string, hit bool, err error, start time.Time) {
	outcome := outcomeMiss
	switch {
	case err != nil:
		outcome = outcomeError
	case hit:
		outcome = outcomeHit
	}
	metrics.RecordQuery(operation, outcome, float64(time.Since(start).Microseconds())/1000)
}
