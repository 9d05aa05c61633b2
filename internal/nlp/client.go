// Package nlp implements the HTTP client for the crisis classifier service.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/config"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

// Client wraps the classifier's HTTP surface. It implements
// service.Classifier and service.Admin.
type Client struct {
	httpClient *http.Client
	baseURL    string
	adminURL   string
	maxRetries int
	retryDelay time.Duration
}

// New creates a classifier client from configuration.
func New(cfg config.NLPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	adminURL := cfg.AdminURL
	if adminURL == "" {
		adminURL = cfg.BaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		adminURL:   adminURL,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Health probes the service with a single GET. Any non-200 status or
// malformed body maps to unhealthy; a connection failure maps to
// unreachable.
func (c *Client) Health(ctx context.Context) service.HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return service.StatusUnreachable
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return service.StatusUnreachable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return service.StatusUnhealthy
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return service.StatusUnhealthy
	}
	if health.Status != "healthy" {
		return service.StatusUnhealthy
	}

	return service.StatusHealthy
}

// Analyze classifies a single message, retrying with fixed backoff on
// network errors and non-200 responses. After retries are exhausted the
// error is returned as a value; the caller decides how to absorb it.
func (c *Client) Analyze(ctx context.Context, message, userID, channelID string) (model.ClassificationResult, error) {
	body, err := json.Marshal(analyzeRequest{
		Message:   message,
		UserID:    userID,
		ChannelID: channelID,
	})
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	var parsed analyzeResponse
	var latency time.Duration

	retryErr := common.WithRetry(ctx, func() error {
		start := time.Now()
		callErr := c.postJSON(ctx, c.baseURL+"/analyze", body, &parsed)
		latency = time.Since(start)
		if callErr != nil {
			return &common.RetryableError{Err: callErr, Retryable: true}
		}
		return nil
	}, service.RetryOptions{
		MaxAttempts:  c.maxRetries,
		InitialDelay: c.retryDelay,
		MaxDelay:     c.retryDelay,
		Multiplier:   1.0,
	})
	if retryErr != nil {
		return model.ClassificationResult{}, fmt.Errorf("analyze failed: %w", retryErr)
	}

	level, err := model.ParseCrisisLevel(parsed.CrisisLevel)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %v", common.ErrProtocol, err)
	}

	// Older service versions omit crisis_score; fall back to the raw
	// confidence so both generations stay comparable.
	crisisScore := parsed.ConfidenceScore
	if parsed.CrisisScore != nil {
		crisisScore = *parsed.CrisisScore
	}

	if parsed.ProcessingTimeMS > 0 {
		latency = time.Duration(parsed.ProcessingTimeMS * float64(time.Millisecond))
	}

	return model.ClassificationResult{
		Level:       level,
		Confidence:  parsed.ConfidenceScore,
		CrisisScore: crisisScore,
		Method:      parsed.Method,
		Latency:     latency,
	}, nil
}

// postJSON executes one POST round trip and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", common.ErrProtocol, resp.StatusCode, truncate(respBody, 200))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: malformed response: %v", common.ErrProtocol, err)
		}
	}

	return nil
}

// getJSON executes one GET round trip and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", common.ErrProtocol, resp.StatusCode, truncate(respBody, 200))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", common.ErrProtocol, err)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
