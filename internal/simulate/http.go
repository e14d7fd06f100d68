package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/talentscope/pkg/logger"
)

// HTTPClient wraps http.Client with a base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request for path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON decodes the 200 response of GET path into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// submitEvaluations posts evals with cfg.Workers concurrent submitters.
func submitEvaluations(ctx context.Context, client *HTTPClient, cfg Config, evals []Evaluation, stats *Stats) {
	logger.Get().Info(ctx, "submitting evaluations",
		logger.Int("count", len(evals)), logger.Int("workers", cfg.Workers))

	var submitted, accepted, failed int64

	evalChan := make(chan Evaluation, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range evalChan {
				atomic.AddInt64(&submitted, 1)
				if err := submitSingleEvaluation(ctx, client, e); err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "evaluation rejected",
						logger.String("id", e.ID), logger.String("playerID", e.PlayerID), logger.Error(err))
					continue
				}
				atomic.AddInt64(&accepted, 1)
			}
		}()
	}

	go func() {
		defer close(evalChan)
		for _, e := range evals {
			select {
			case <-ctx.Done():
				return
			case evalChan <- e:
			}
		}
	}()

	wg.Wait()

	stats.EvaluationsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EvaluationsAccepted = int(atomic.LoadInt64(&accepted))
	stats.EvaluationsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "evaluation submission completed",
		logger.Int("accepted", stats.EvaluationsAccepted), logger.Int("failed", stats.EvaluationsFailed))
}

func submitSingleEvaluation(ctx context.Context, client *HTTPClient, e Evaluation) error {
	resp, err := client.Post(ctx, "/evaluations", e)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
