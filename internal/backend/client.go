// Package backend is the HTTP client for the execution service that
// evaluates applied formulas. It implements editor.Applier.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the execution service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the execution service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type applyRequest struct {
	Expression string `json:"expression"`
}

type applyResponse struct {
	Error string `json:"error"`
}

// Apply submits the expression for the target column. A non-nil error wraps
// the service's rejection message for display in the editor.
func (c *Client) Apply(ctx context.Context, expression, targetColumn string) error {
	body, err := json.Marshal(applyRequest{Expression: expression})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/columns/%s/formula", c.baseURL, url.PathEscape(targetColumn))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("applying formula", "target", targetColumn, "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execution service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var parsed applyResponse
	if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
		return fmt.Errorf("%s", parsed.Error)
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("apply rejected: %s", msg)
}
