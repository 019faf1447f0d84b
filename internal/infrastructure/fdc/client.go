// Package fdc talks to the USDA FoodData Central v1 API.
package fdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"macromanager/internal/config"
	"macromanager/internal/domain"
	"macromanager/internal/logging"
	"macromanager/internal/ports"
	"macromanager/internal/ratelimit"
)

const maxBodyBytes = 8 << 20

// Client implements ports.FoodDatabase over HTTP.
type Client struct {
	baseURL  string
	dataType string
	http     ports.HTTPDoer
	quota    *ratelimit.Tracker
	logger   *slog.Logger
}

var _ ports.FoodDatabase = (*Client)(nil)
var _ ports.QuotaSource = (*Client)(nil)

// NewClient builds a client from configuration. A nil doer gets an *http.Client
// with the configured timeout; a nil tracker gets one reading the configured headers.
func NewClient(cfg config.FDCConfig, doer ports.HTTPDoer, tracker *ratelimit.Tracker, logger *slog.Logger) *Client {
	if doer == nil {
		timeout := cfg.Timeout.Std()
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}
	if tracker == nil {
		tracker = ratelimit.NewTracker(cfg.RateLimitHeaders.Limit, cfg.RateLimitHeaders.Remaining)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	dataType := strings.TrimSpace(cfg.DataType)
	if dataType == "" {
		dataType = config.DefaultDataType
	}

	return &Client{
		baseURL:  baseURL,
		dataType: dataType,
		http:     doer,
		quota:    tracker,
		logger:   logger,
	}
}

// Snapshot returns the quota observed on the latest response.
func (c *Client) Snapshot() domain.Quota {
	return c.quota.Snapshot()
}

// response is a 2xx reply whose body has not been decoded yet.
type response struct {
	status int
	body   []byte
}

// decode unmarshals the body; invalid JSON is an upstream defect.
func (r response) decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return r.malformed("decode response: %v", err)
	}
	return nil
}

// malformed reports a success response this system cannot use.
func (r response) malformed(format string, args ...any) error {
	return &domain.UpstreamError{
		StatusCode: r.status,
		Body:       string(r.body),
		Message:    fmt.Sprintf(format, args...),
	}
}

// get issues one GET and returns the body of a 2xx reply. The quota tracker sees
// the headers of every response, successful or not.
func (c *Client) get(ctx context.Context, path string, query url.Values, apiKey string) (response, error) {
	if strings.TrimSpace(apiKey) == "" {
		return response{}, domain.ErrConfiguration
	}

	params := url.Values{}
	for k, vals := range query {
		params[k] = append([]string(nil), vals...)
	}
	params.Set("api_key", apiKey)
	endpoint := c.baseURL + path + "?" + encodeQuery(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return response{}, fmt.Errorf("new request: %w", c.redact(err, path))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "macromanager/1.0")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = c.redact(err, path)
		c.logger.Warn("upstream request failed", "path", path, "error", err)
		return response{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	c.quota.Observe(resp.Header)
	quota := c.quota.Snapshot()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("upstream response",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(started),
		"quota_limit", quota.Limit,
		"quota_remaining", quota.Remaining,
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		upstreamErr := &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Message:    summarizeBody(resp.Header.Get("Content-Type"), body),
		}
		c.logger.Warn("upstream rejected request", "path", path, "status", resp.StatusCode, "message", upstreamErr.Message)
		return response{}, upstreamErr
	}

	return response{status: resp.StatusCode, body: body}, nil
}

// redact drops the query string, and with it the api key, from URLs carried
// by err. net/http reports transport failures as *url.Error with the full URL.
func (c *Client) redact(err error, path string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = c.baseURL + path
	}
	return err
}

// encodeQuery is url.Values.Encode with spaces as %20; the FDC gateway does not
// treat '+' as a space in every parameter.
func encodeQuery(v url.Values) string {
	return strings.ReplaceAll(v.Encode(), "+", "%20")
}
