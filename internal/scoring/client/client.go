// internal/scoring/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"planora/internal/domain"
)

// ErrUnavailable wraps transport failures: the service could not be reached
// or answered with something that is not JSON.
var ErrUnavailable = errors.New("scoring service unavailable")

// APIError is a non-2xx response from the scoring service.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("scoring service: status %d", e.Status)
	}
	return fmt.Sprintf("scoring service: status %d: %s", e.Status, e.Detail)
}

const (
	pathHealth     = "/health"
	pathAllocate   = "/allocate"
	pathDebt       = "/analyze-debt"
	pathInvestment = "/analyze-investment-profile"
	pathGoals      = "/analyze-goal-based-planning"
)

// Client talks to the scoring backend. It does not retry.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Health reports whether the service answers its health check.
func (c *Client) Health(ctx context.Context) error {
	var body map[string]any
	return c.do(ctx, http.MethodGet, pathHealth, nil, &body)
}

func (c *Client) Allocate(ctx context.Context, p domain.FinancialProfile) (domain.AllocationResult, error) {
	var r domain.AllocationResult
	err := c.do(ctx, http.MethodPost, pathAllocate, p, &r)
	return r, err
}

func (c *Client) AnalyzeDebt(ctx context.Context, p domain.DebtProfile) (domain.DebtAnalysis, error) {
	var r domain.DebtAnalysis
	err := c.do(ctx, http.MethodPost, pathDebt, p, &r)
	return r, err
}

func (c *Client) AnalyzeInvestment(ctx context.Context, p domain.InvestmentProfile) (domain.InvestmentAnalysis, error) {
	var r domain.InvestmentAnalysis
	err := c.do(ctx, http.MethodPost, pathInvestment, p, &r)
	return r, err
}

func (c *Client) AnalyzeGoals(ctx context.Context, p domain.GoalPlan) (domain.GoalAnalysis, error) {
	var r domain.GoalAnalysis
	err := c.do(ctx, http.MethodPost, pathGoals, p, &r)
	return r, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: detailOf(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// detailOf extracts {"detail": ...} or {"error": ...} from an error body.
func detailOf(raw []byte) string {
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	switch d := body.Detail.(type) {
	case string:
		return d
	case nil:
		return body.Error
	default:
		b, _ := json.Marshal(d)
		return string(b)
	}
}
