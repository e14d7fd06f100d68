package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore is an in-memory EvaluationStore and ReportStore.
//
// Evaluations are append-only. Every read hands out deep copies taken under
// the read lock, so callers never observe a partially written record and
// cannot mutate stored state.
type MemoryStore struct {
	mu sync.RWMutex

	evaluations []model.UnifiedEvaluation
	evalIndex   map[string]int   // evaluation id -> position
	byPlayer    map[string][]int // player id -> positions in insertion order
	players     []string         // first-appearance order
	reports     map[string]model.ScoutingReport
	reportOrder map[string][]string // player id -> report ids

	capacity              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var (
	_ EvaluationStore = (*MemoryStore)(nil)
	_ ReportStore     = (*MemoryStore)(nil)
	_ VisitCompleter  = (*MemoryStore)(nil)
)

// NewMemoryStore constructs an empty store and starts its gauge updater,
// which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.evaluations = make([]model.UnifiedEvaluation, 0, s.capacity)
	s.evalIndex = make(map[string]int, s.capacity)
	s.byPlayer = make(map[string][]int)
	s.reports = make(map[string]model.ScoutingReport)
	s.reportOrder = make(map[string][]string)

	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background gauge updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Append implements EvaluationStore.
func (s *MemoryStore) Append(_ context.Context, e model.UnifiedEvaluation) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	rec := e.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(rec)
}

func (s *MemoryStore) appendLocked(rec model.UnifiedEvaluation) error {
	if _, ok := s.evalIndex[rec.ID]; ok {
		metrics.RecordErrorByComponent("repository", "duplicate_evaluation")
		return ErrDuplicateEvaluation
	}
	pos := len(s.evaluations)
	s.evaluations = append(s.evaluations, rec)
	s.evalIndex[rec.ID] = pos
	if _, seen := s.byPlayer[rec.PlayerID]; !seen {
		s.players = append(s.players, rec.PlayerID)
	}
	s.byPlayer[rec.PlayerID] = append(s.byPlayer[rec.PlayerID], pos)
	return nil
}

// Get implements EvaluationStore.
func (s *MemoryStore) Get(_ context.Context, id string) (model.UnifiedEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.evalIndex[id]
	if !ok {
		return model.UnifiedEvaluation{}, ErrEvaluationNotFound
	}
	return s.evaluations[pos].Clone(), nil
}

// Snapshot implements EvaluationStore.
func (s *MemoryStore) Snapshot(_ context.Context) []model.UnifiedEvaluation {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSnapshotLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UnifiedEvaluation, len(s.evaluations))
	for i, e := range s.evaluations {
		out[i] = e.Clone()
	}
	return out
}

// ByPlayer implements EvaluationStore.
func (s *MemoryStore) ByPlayer(_ context.Context, playerID string) []model.UnifiedEvaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.byPlayer[playerID]
	out := make([]model.UnifiedEvaluation, len(positions))
	for i, pos := range positions {
		out[i] = s.evaluations[pos].Clone()
	}
	return out
}

// Count implements EvaluationStore.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.evaluations)
}

// PlayerIDs implements EvaluationStore.
func (s *MemoryStore) PlayerIDs(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.players...)
}

// PutReport implements ReportStore.
func (s *MemoryStore) PutReport(_ context.Context, r model.ScoutingReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; ok {
		metrics.RecordErrorByComponent("repository", "duplicate_report")
		return ErrDuplicateReport
	}
	s.reports[r.ID] = r
	s.reportOrder[r.PlayerID] = append(s.reportOrder[r.PlayerID], r.ID)
	return nil
}

// GetReport implements ReportStore.
func (s *MemoryStore) GetReport(_ context.Context, id string) (model.ScoutingReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return model.ScoutingReport{}, ErrReportNotFound
	}
	return r, nil
}

// ReportsByPlayer implements ReportStore.
func (s *MemoryStore) ReportsByPlayer(_ context.Context, playerID string) []model.ScoutingReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.reportOrder[playerID]
	out := make([]model.ScoutingReport, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.reports[id])
	}
	return out
}

// MarkCompleted implements ReportStore.
func (s *MemoryStore) MarkCompleted(_ context.Context, id, evaluationID string) (model.ScoutingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.completableLocked(id)
	if err != nil {
		return model.ScoutingReport{}, err
	}
	return s.completeLocked(r, evaluationID), nil
}

// CompleteVisit implements VisitCompleter.
func (s *MemoryStore) CompleteVisit(_ context.Context, reportID string, e model.UnifiedEvaluation) (model.ScoutingReport, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	rec := e.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.completableLocked(reportID)
	if err != nil {
		return model.ScoutingReport{}, err
	}
	if err := s.appendLocked(rec); err != nil {
		return model.ScoutingReport{}, err
	}
	return s.completeLocked(r, rec.ID), nil
}

func (s *MemoryStore) completableLocked(id string) (model.ScoutingReport, error) {
	r, ok := s.reports[id]
	if !ok {
		return model.ScoutingReport{}, ErrReportNotFound
	}
	switch r.Status {
	case model.ReportCompleted:
		return model.ScoutingReport{}, ErrReportCompleted
	case model.ReportCancelled:
		return model.ScoutingReport{}, ErrReportCancelled
	}
	return r, nil
}

func (s *MemoryStore) completeLocked(r model.ScoutingReport, evaluationID string) model.ScoutingReport {
	r.Status = model.ReportCompleted
	r.EvaluationID = evaluationID
	s.reports[r.ID] = r
	return r
}

// ReportCount implements ReportStore.
func (s *MemoryStore) ReportCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	evaluations, players, reports := len(s.evaluations), len(s.players), len(s.reports)
	s.mu.RUnlock()

	metrics.UpdateStoreEvaluations(evaluations)
	metrics.UpdateStorePlayers(players)
	metrics.UpdateStoreReports(reports)
}
