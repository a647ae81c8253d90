package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backend endpoints
const (
	LoginPath  = "/auth/login"
	IngestPath = "/documents/ingest"
	QueryPath  = "/documents/query"
)

// maxErrorBody caps how much of an error response is kept for display
const maxErrorBody = 64 * 1024

// Ingester submits documents for ingestion
type Ingester interface {
	Ingest(ctx context.Context, token string, req IngestRequest) (*IngestResponse, error)
}

// Querier asks the backend a question
type Querier interface {
	Query(ctx context.Context, token string, req QueryRequest) (*QueryResponse, error)
}

// Client talks to the SENTRY backend over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend location
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.post(ctx, LoginPath, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ingest posts a document to /documents/ingest
func (c *Client) Ingest(ctx context.Context, token string, req IngestRequest) (*IngestResponse, error) {
	var out IngestResponse
	if err := c.post(ctx, IngestPath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query posts a question to /documents/query
func (c *Client) Query(ctx context.Context, token string, req QueryRequest) (*QueryResponse, error) {
	var out QueryResponse
	if err := c.post(ctx, QueryPath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks the backend answers HTTP at all; any status counts as reachable
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/docs", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &NetworkError{Endpoint: "/docs", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	LogDebug("POST %s (request %s)", path, requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Endpoint: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func newAPIError(path string, resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		Endpoint:   path,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       string(raw),
	}
	apiErr.Detail = parseDetail(raw)
	return apiErr
}

// parseDetail extracts FastAPI's "detail", which is either a string or a list of validation errors
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			loc := make([]string, 0, len(it.Loc))
			for _, l := range it.Loc {
				loc = append(loc, fmt.Sprint(l))
			}
			if len(loc) > 0 {
				msgs = append(msgs, strings.Join(loc, ".")+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(body.Detail)
}
