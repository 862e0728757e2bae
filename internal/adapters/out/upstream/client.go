// Package upstream is the shared JSON-over-HTTP client of the weather and geocoding adapters.
// Transient failures (network errors, 429 and 5xx answers) are retried with exponential
// backoff; everything that still fails surfaces as errs.UpstreamUnavailableError.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"agromarket/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig controls the backoff between attempts.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
	}
}

// StatusError is a non-2xx answer.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Retryable reports whether the upstream may answer differently on a later attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type Client struct {
	service string
	http    *http.Client
	retry   RetryConfig
	logger  *slog.Logger
}

// New creates a client for the named service. A nil httpClient uses a client with a 10s timeout.
func New(service string, httpClient *http.Client, retry RetryConfig, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if retry.Multiplier == 0 {
		retry.Multiplier = 2
	}
	return &Client{
		service: service,
		http:    httpClient,
		retry:   retry,
		logger:  logger.With("component", "upstream", "service", service),
	}
}

// GetJSON decodes the answer of GET base?query into dest.
func (c *Client) GetJSON(ctx context.Context, base string, query url.Values, dest any) error {
	target := base
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	operation := func() error {
		return c.get(ctx, target, dest)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retry.InitialInterval
	policy.MaxInterval = c.retry.MaxInterval
	policy.Multiplier = c.retry.Multiplier
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "upstream call failed, retrying", "error", err, "wait", wait)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.retry.MaxRetries), ctx), notify)
	if err != nil {
		return errs.NewUpstreamUnavailableErrorWithCause(c.service, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, target string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redact(urlErr.URL)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{URL: redact(target), Code: resp.StatusCode}
		if statusErr.Retryable() {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if err = json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return backoff.Permanent(fmt.Errorf("decode %s answer: %w", c.service, err))
	}
	return nil
}

// redact drops the API key from URLs that end up in logs and errors.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	if q.Has("appid") {
		q.Set("appid", "redacted")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
