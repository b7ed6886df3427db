package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"feedback-console/internal/feedback"
)

const (
	analyzePath = "/api/analyze"
	queryPath   = "/api/query"
	healthPath  = "/health"

	maxBodyBytes = 4 << 20
)

// Client talks to the feedback analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	inFlight   *semaphore.Weighted
}

// NewClient constructs a Client for the service at baseURL. A zero timeout disables the client timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_URL %q: %w", baseURL, err)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithMaxInFlight caps concurrent requests across all callers. Callers over the cap wait
// for a slot until their context ends. n <= 0 removes the cap.
func (c *Client) WithMaxInFlight(n int) *Client {
	if n <= 0 {
		c.inFlight = nil
		return c
	}
	c.inFlight = semaphore.NewWeighted(int64(n))
	return c
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type analyzeRequest struct {
	Feedback string `json:"feedback"`
}

// Analyze submits one feedback text and returns the backend's analysis.
func (c *Client) Analyze(ctx context.Context, text string) (feedback.AnalysisResult, error) {
	payload, err := json.Marshal(analyzeRequest{Feedback: text})
	if err != nil {
		return feedback.AnalysisResult{}, err
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(payload))
	if err != nil {
		return feedback.AnalysisResult{}, err
	}

	var result feedback.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return feedback.AnalysisResult{}, &feedback.ParseError{Err: err}
	}
	if err := result.Validate(); err != nil {
		return feedback.AnalysisResult{}, &feedback.ParseError{Err: err}
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	return result, nil
}

// Query fetches one page of analysis history.
func (c *Client) Query(ctx context.Context, q feedback.QueryRequest) (feedback.HistoryPage, error) {
	endpoint := c.baseURL + queryPath + "?" + q.Values().Encode()
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return feedback.HistoryPage{}, err
	}

	var page feedback.HistoryPage
	if err := json.Unmarshal(body, &page); err != nil {
		return feedback.HistoryPage{}, &feedback.ParseError{Err: err}
	}
	return page, nil
}

// Ping checks that the service answers its health endpoint. The body is ignored.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	if c.inFlight != nil {
		if err := c.inFlight.Acquire(ctx, 1); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, &feedback.NetworkError{Err: err}
		}
		defer c.inFlight.Release(1)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &feedback.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &feedback.HTTPError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &feedback.NetworkError{Err: err}
	}
	return data, nil
}
