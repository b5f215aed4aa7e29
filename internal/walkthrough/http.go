package walkthrough

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/calibra/internal/domain/machine"
	"github.com/okian/calibra/internal/domain/session"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// dispatchResponse mirrors the wire shape returned by POST /dispatch.
type dispatchResponse struct {
	OK      bool             `json:"ok"`
	Session *session.Session `json:"session"`
	Error   *machine.Error   `json:"error"`
}

// dispatch posts one event envelope and decodes the outcome. A transport
// failure and an ok:false response are both surfaced as errors.
func (c *HTTPClient) dispatch(ctx context.Context, baseURL string, raw session.RawEvent) (*session.Session, error) {
	body, err := json.Marshal(session.Envelope{Event: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/dispatch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dispatch request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out dispatchResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if !out.OK {
		if out.Error != nil {
			return nil, fmt.Errorf("dispatch rejected %s: %s (%s)", raw.Type, out.Error.Code, out.Error.Message)
		}
		return nil, fmt.Errorf("dispatch rejected %s with status %d", raw.Type, resp.StatusCode)
	}
	if out.Session == nil {
		return nil, fmt.Errorf("dispatch %s returned ok without a session", raw.Type)
	}
	return out.Session, nil
}
