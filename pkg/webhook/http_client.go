// Package webhook delivers page events to an external notifications service
// over HTTP.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

// HTTPConfig configures the HTTP notifications client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient posts page events to {BaseURL}/channels/{channel}/events.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ pagebuilder.NotificationsClient = (*HTTPClient)(nil)

// NewHTTPClient builds a client for a notifications endpoint.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("webhook: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// PublishPageEvent implements pagebuilder.NotificationsClient.
func (c *HTTPClient) PublishPageEvent(ctx context.Context, channel string, event pagebuilder.PageEvent) error {
	if channel == "" {
		channel = "pages"
	}
	payload := eventPayload{
		StoreID:   event.StoreID,
		PageID:    event.PageID,
		WidgetID:  event.WidgetID,
		Reason:    event.Reason,
		Revision:  event.Revision,
		Published: time.Now().UTC().Format(time.RFC3339),
	}
	return c.do(ctx, http.MethodPost, "/channels/"+url.PathEscape(channel)+"/events", payload)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("webhook: remote error %d: %s", resp.StatusCode, buf.String())
	}
	return nil
}

type eventPayload struct {
	StoreID   string `json:"store_id"`
	PageID    string `json:"page_id"`
	WidgetID  string `json:"widget_id,omitempty"`
	Reason    string `json:"reason"`
	Revision  int64  `json:"revision"`
	Published string `json:"published_at"`
}
