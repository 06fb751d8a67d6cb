// Package push delivers rendered reports to Bark endpoints.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload is the Bark notification body.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Group string `json:"group,omitempty"`
	URL   string `json:"url,omitempty"`
	Level string `json:"level,omitempty"`
}

type barkResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client sends single notifications to one Bark endpoint URL.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Send posts one notification to the target endpoint. The target is a full
// Bark push URL including the device key.
func (c *Client) Send(ctx context.Context, target string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bark request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bark API error: status %d", resp.StatusCode)
	}

	// Bark reports application-level failures with HTTP 200 and a non-200
	// code in the JSON body.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("read bark response: %w", err)
	}
	var br barkResponse
	if err := json.Unmarshal(raw, &br); err == nil && br.Code != 0 && br.Code != http.StatusOK {
		return fmt.Errorf("bark API error: code %d: %s", br.Code, br.Message)
	}
	return nil
}
