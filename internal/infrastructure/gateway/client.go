package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
)

// Client is the outbound HTTP helper shared by the provider adapters:
// JSON in/out, bounded retries with exponential backoff on transport and
// provider-side failures.
type Client struct {
	provider   domain.Provider
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
}

func NewClient(provider domain.Provider, cfg config.GatewayConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout)
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	retryDelay := time.Duration(cfg.RetryBackoffBase)
	if retryDelay == 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Client{
		provider:   provider,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Do makes an HTTP request with retries. Provider rejections (non-2xx that is
// not retryable) surface as *domain.GatewayError with the payload attached.
func (c *Client) Do(ctx context.Context, method, endpoint string, headers map[string]string, body, response interface{}) error {
	fullURL := c.baseURL + endpoint

	var reqBody []byte
	var err error
	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(1<<(attempt-1))):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(reqBody))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.logger.Warn().Err(err).
				Str("provider", string(c.provider)).
				Str("endpoint", endpoint).
				Int("attempt", attempt+1).
				Msg("Gateway request failed, will retry")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &domain.GatewayError{
				Provider: c.provider,
				Status:   resp.StatusCode,
				Payload:  respBody,
			}
			c.logger.Warn().
				Str("provider", string(c.provider)).
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Int("attempt", attempt+1).
				Msg("Gateway server error, will retry")
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &domain.GatewayError{
				Provider: c.provider,
				Status:   resp.StatusCode,
				Payload:  respBody,
			}
		}

		if response != nil {
			if err := json.Unmarshal(respBody, response); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	}

	return lastErr
}
