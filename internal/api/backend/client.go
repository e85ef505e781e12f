package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "editor-board/internal/errors"

	"go.uber.org/zap"
)

var (
	ErrUnauthorized    = apperrors.Unauthorized("not authenticated", nil)
	ErrAccountDisabled = apperrors.Forbidden("account disabled", nil)
	ErrMissingToken    = apperrors.InvalidInput("oauth callback without token", nil)
	ErrNotFound        = apperrors.NotFound("resource not found", nil)
	ErrUnavailable     = apperrors.Unavailable("backend unavailable", nil)
)

const (
	maxAttempts    = 3
	defaultBackoff = time.Second
)

// Client for requests to the job board REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
	backoff    time.Duration
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:    logger,
		userAgent: "Editor-Board-Bot/1.0",
		backoff:   defaultBackoff,
	}
}

type request struct {
	method string
	url    string
	token  string
	retry  bool
}

// do executes a request. Only requests marked retry are repeated, and only on
// transport errors, 429 and 5xx responses.
func (c *Client) do(ctx context.Context, r request) ([]byte, http.Header, error) {
	attempts := 1
	if r.retry {
		attempts = maxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.backoff
			c.logger.Debug("retrying request",
				zap.String("url", r.url),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, nil, apperrors.Unavailable("request cancelled", ctx.Err())
			case <-time.After(backoff):
			}
		}

		body, header, err := c.once(ctx, r)
		if err == nil {
			return body, header, nil
		}
		if !apperrors.IsType(err, apperrors.ErrTypeUnavailable) && !apperrors.IsType(err, apperrors.ErrTypeRateLimit) {
			return nil, nil, err
		}
		lastErr = err
	}

	if attempts == 1 {
		return nil, nil, lastErr
	}
	return nil, nil, fmt.Errorf("request failed after retries: %w", lastErr)
}

func (c *Client) once(ctx context.Context, r request) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, nil)
	if err != nil {
		return nil, nil, apperrors.Internal("create request", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: r.token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, apperrors.Unavailable("send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apperrors.Unavailable("read response body", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("successful request",
			zap.String("method", r.method),
			zap.String("url", r.url),
			zap.Int("status", resp.StatusCode),
		)
		return body, resp.Header, nil
	}

	return nil, nil, c.statusError(r, resp.StatusCode, body)
}

func (c *Client) statusError(r request, status int, body []byte) error {
	message := fmt.Sprintf("%s %s: status %d", r.method, r.url, status)

	switch {
	case status == http.StatusUnauthorized:
		// a normal logged-out outcome, not worth an error log
		c.logger.Debug("unauthorized response", zap.String("url", r.url))
		return apperrors.Unauthorized(message, nil)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message, nil)
	case status == http.StatusNotFound:
		return apperrors.NotFound(message, nil)
	case status == http.StatusTooManyRequests:
		c.logger.Warn("rate limit hit, backing off", zap.String("url", r.url))
		return apperrors.RateLimit(message, nil)
	case status >= 500:
		c.logger.Error("API error",
			zap.String("url", r.url),
			zap.Int("status", status),
			zap.String("body", truncate(string(body), 512)),
		)
		return apperrors.Unavailable(message, nil)
	default:
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
			return apperrors.InvalidInput(message, fmt.Errorf("%s", env.Message))
		}
		return apperrors.InvalidInput(message, nil)
	}
}

// parseResponse unmarshals JSON body
func (c *Client) parseResponse(data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return apperrors.Internal("unmarshal response", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
