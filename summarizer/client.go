// Package summarizer is the HTTP client for the external summarization service.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"skimr/types"
)

// ErrNoSummary is returned when the service answers 2xx without a usable summary.
var ErrNoSummary = errors.New("summarizer: no summary returned")

// UpstreamError reports a failed call. StatusCode is 0 for transport failures
// and timeouts, otherwise the non-2xx status the service returned.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("summarizer: request failed: %v", e.Err)
	}
	return fmt.Sprintf("summarizer: service returned %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

const maxResponseBytes = 1 << 20

// Client posts summary requests to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Summarize returns the non-empty summary for req.
func (c *Client) Summarize(ctx context.Context, req types.SummaryRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("summarizer: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("[Summarizer] request failed", "url", req.URL, "elapsed", time.Since(start), "error", err)
		return "", &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &UpstreamError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("[Summarizer] service returned error status", "status", resp.StatusCode, "url", req.URL)
		slog.Debug("[Summarizer] error body", "body", string(body))
		return "", &UpstreamError{StatusCode: resp.StatusCode}
	}

	var result types.SummaryResult
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Warn("[Summarizer] undecodable response", "error", err)
		return "", ErrNoSummary
	}
	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		return "", ErrNoSummary
	}

	slog.Info("[Summarizer] summary received", "url", req.URL, "elapsed", time.Since(start), "length", len(summary))
	return summary, nil
}
