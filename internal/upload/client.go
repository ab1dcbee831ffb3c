package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/ingest"
)

// Client sends exports to a gymlog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a client for the gymlog server at serverURL.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// retryable marks failures worth another attempt.
type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

// SendAlpha POSTs one Alpha Progression CSV to the import endpoint. Network
// errors and 5xx responses are retried up to 3 times with exponential
// backoff; 4xx responses fail immediately.
func (c *Client) SendAlpha(ctx context.Context, csv []byte) (*ingest.Result, error) {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff << uint(attempt-1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		res, err := c.post(ctx, "/api/v1/import/alpha", csv)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if _, ok := err.(retryable); !ok {
			return nil, err
		}
	}
	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*ingest.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retryable{err}
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode >= 500:
		return nil, retryable{fmt.Errorf("import failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(data))}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("import rejected (status %d): %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var res ingest.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding import result: %w", err)
	}
	return &res, nil
}
