package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/replog/internal/ingest"
)

// ErrRejected marks a permanent server rejection (4xx). Retrying or
// keeping the line buffered will not help.
var ErrRejected = errors.New("line rejected")

// Client sends buffered lines to the RepLog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the RepLog server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendLine POSTs one line to the server's log endpoint. Retries up to 3
// times with exponential backoff on transient failure. A 422 no_match
// reply counts as delivered; other 4xx responses are permanent and
// returned without retrying.
func (c *Client) SendLine(text string, capturedAt time.Time) (*ingest.Result, error) {
	data, err := json.Marshal(map[string]any{
		"text":        text,
		"captured_at": capturedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling line: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * c.backoff)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/log", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnprocessableEntity:
			var res ingest.Result
			if err := json.Unmarshal(body, &res); err != nil {
				return nil, fmt.Errorf("decoding log result: %w", err)
			}
			return &res, nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, fmt.Errorf("%w (status %d): %s", ErrRejected, resp.StatusCode, body)
		default:
			lastErr = fmt.Errorf("log failed (status %d): %s", resp.StatusCode, body)
		}
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
