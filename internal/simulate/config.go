// Package simulate drives a running talentscope server with generated
// evaluations and checks the served histories against a local computation.
package simulate

import (
	"time"

	"github.com/okian/talentscope/internal/domain/model"
)

// Default run parameters.
const (
	DefaultPlayers              = 20
	DefaultEvaluationsPerPlayer = 6
	DefaultWorkers              = 4
	DefaultTimeout              = 10 * time.Second
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL              string        // Base URL of the service
	Players              int           // Number of generated players
	EvaluationsPerPlayer int           // Evaluations generated per player
	Workers              int           // Concurrent submitters
	Timeout              time.Duration // HTTP request timeout
	Seed                 uint64        // Generator seed; 0 picks one from the clock
	OutputFile           string        // Optional dataset file of what was generated
	StartDate            time.Time     // Date of each player's first evaluation
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Players < 1 {
		out.Players = DefaultPlayers
	}
	if out.EvaluationsPerPlayer < 1 {
		out.EvaluationsPerPlayer = DefaultEvaluationsPerPlayer
	}
	if out.Workers < 1 {
		out.Workers = DefaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Seed == 0 {
		out.Seed = uint64(time.Now().UnixNano())
	}
	if out.StartDate.IsZero() {
		out.StartDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return out
}

// Evaluation is one generated evaluation, in the shape accepted by
// POST /evaluations and by dataset files.
type Evaluation struct {
	ID             string                        `json:"id" yaml:"id"`
	PlayerID       string                        `json:"player_id" yaml:"player_id"`
	EvaluatorName  string                        `json:"evaluator_name" yaml:"evaluator_name"`
	EvaluatorRole  string                        `json:"evaluator_role" yaml:"evaluator_role"`
	EvaluationDate string                        `json:"evaluation_date" yaml:"evaluation_date"`
	Source         model.Source                  `json:"source" yaml:"source"`
	Scores         model.UnifiedEvaluationScores `json:"scores" yaml:"scores"`
}

// Stats holds run statistics.
type Stats struct {
	PlayersGenerated     int
	EvaluationsGenerated int
	EvaluationsSubmitted int
	EvaluationsAccepted  int
	EvaluationsFailed    int
	PlayersVerified      int
	Mismatches           []string
	Seed                 uint64
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
