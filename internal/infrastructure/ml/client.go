package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize is the maximum allowed response size from the ML service (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrServiceUnavailable indicates the ML service could not be reached or
// returned an unusable response. Callers decide whether it degrades or fails.
var ErrServiceUnavailable = errors.New("ml: service unavailable")

// Client is a thin HTTP proxy to the external analytics service. The service
// is an opaque dependency: no retries, no circuit breaker, responses forwarded
// as-is.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new ML service client with the given base URL and timeout
func NewClient(baseURL string, timeoutSeconds int) *Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// OutbreakRequest is the payload posted to the outbreak prediction endpoint
type OutbreakRequest struct {
	Cases []OutbreakCase `json:"cases"`
}

// OutbreakCase is one aggregated disease/city count
type OutbreakCase struct {
	DiseaseName string `json:"disease_name"`
	City        string `json:"city"`
	CaseCount   int64  `json:"case_count"`
}

// ForecastRequest is the payload posted to the sales forecast endpoint
type ForecastRequest struct {
	Months []MonthlyRevenue `json:"months"`
}

// MonthlyRevenue is one month of paid revenue
type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// Health checks the ML service liveness endpoint
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/ml/health")
}

// ModelStatus returns the status of the deployed models
func (c *Client) ModelStatus(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/ml/models")
}

// PredictOutbreak posts disease-case aggregates and returns the raw prediction
func (c *Client) PredictOutbreak(ctx context.Context, req *OutbreakRequest) (json.RawMessage, error) {
	return c.post(ctx, "/api/ml/predict/outbreak", req)
}

// SalesForecast posts monthly revenue history and returns the raw forecast
func (c *Client) SalesForecast(ctx context.Context, req *ForecastRequest) (json.RawMessage, error) {
	return c.post(ctx, "/api/ml/forecast/sales", req)
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: non-JSON response", ErrServiceUnavailable)
	}

	return json.RawMessage(body), nil
}
