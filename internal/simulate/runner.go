package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/talentscope/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run generates evaluations, submits them in random order and verifies every
// player's served history. It returns the stats even when verification fails.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := config.withDefaults()
	stats := &Stats{StartTime: time.Now(), Seed: cfg.Seed}
	log := logger.Named("simulate")

	log.Info(ctx, "starting simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("evaluationsPerPlayer", cfg.EvaluationsPerPlayer),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}
	analyzer, err := trendSettings(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1))
	players := generate(cfg, rng)
	evals := shuffled(players, rng)
	stats.PlayersGenerated = len(players)
	stats.EvaluationsGenerated = len(evals)

	submitEvaluations(ctx, client, cfg, evals, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.EvaluationsFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d rejected", ErrSubmission, stats.EvaluationsFailed, stats.EvaluationsSubmitted)
	}

	for _, p := range players {
		diffs, err := verifyPlayer(ctx, client, analyzer, p)
		if err != nil {
			return stats, fmt.Errorf("%w: %w", ErrVerification, err)
		}
		stats.PlayersVerified++
		stats.Mismatches = append(stats.Mismatches, diffs...)
	}

	if cfg.OutputFile != "" {
		if err := saveDataset(cfg.OutputFile, players); err != nil {
			log.Warn(ctx, "failed to save dataset", logger.String("path", cfg.OutputFile), logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, log, stats)

	if len(stats.Mismatches) > 0 {
		return stats, fmt.Errorf("%w: %d mismatches, first: %s", ErrVerification, len(stats.Mismatches), stats.Mismatches[0])
	}
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

type dataset struct {
	Evaluations []Evaluation `yaml:"evaluations"`
}

// saveDataset writes the generated evaluations as a dataset file that
// evalctl report and the server's seed_file accept.
func saveDataset(path string, players []player) error {
	var ds dataset
	for _, p := range players {
		ds.Evaluations = append(ds.Evaluations, p.Evaluations...)
	}
	data, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, filePermission)
}

func logFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.EvaluationsSubmitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("players", stats.PlayersGenerated),
		logger.Int("evaluationsSubmitted", stats.EvaluationsSubmitted),
		logger.Int("evaluationsAccepted", stats.EvaluationsAccepted),
		logger.Int("playersVerified", stats.PlayersVerified),
		logger.Int("mismatches", len(stats.Mismatches)),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("evaluationsPerSecond", perSecond))
}
