package service

import (
	"github.com/okian/talentscope/internal/adapters/repository"
	"github.com/okian/talentscope/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEvaluationStore replaces the in-memory evaluation store.
func WithEvaluationStore(store repository.EvaluationStore) Option {
	return func(s *Service) {
		if store != nil {
			s.evaluations = store
		}
	}
}

// WithReportStore replaces the in-memory scouting report store.
func WithReportStore(store repository.ReportStore) Option {
	return func(s *Service) {
		if store != nil {
			s.reports = store
		}
	}
}

// WithTrendEpsilon sets the noise threshold for growth trends. Negative
// values are ignored.
func WithTrendEpsilon(eps float64) Option {
	return func(s *Service) {
		if eps >= 0 {
			s.trendEpsilon = eps
		}
	}
}

// WithTrendWindow sets how many evaluations are averaged on each side of a
// trend comparison.
func WithTrendWindow(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.trendWindow = n
		}
	}
}

// WithSeedFile loads the dataset at path when the service starts.
func WithSeedFile(path string) Option {
	return func(s *Service) {
		s.seedFile = path
	}
}

// WithIDGenerator sets the generator for evaluation and report ids that
// callers leave empty.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
