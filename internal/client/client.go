// Package client is the thin HTTP client the CLI uses to talk to the
// settings service.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skipper-desktop/skipctl/internal/discovery"
)

const settingsEndpoint = "/v0/settings"

// Result is the envelope the settings service wraps command responses in.
// Status is "error", "help", "updated", or a bare boolean; Value carries the
// payload or human-readable text.
type Result struct {
	Status any             `json:"status"`
	Type   string          `json:"type"`
	Value  json.RawMessage `json:"value"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the service at the given host:port address.
func New(address string) *Client {
	return &Client{
		baseURL: "http://" + address,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewFromDiscovery locates the running service via its connection-info file.
func NewFromDiscovery(envPath string) (*Client, error) {
	info, err := discovery.Discover(discovery.Options{EnvPath: envPath})
	if err != nil {
		return nil, err
	}
	return New(info.Address), nil
}

// GetSettings fetches the current settings document.
func (c *Client) GetSettings() (map[string]any, error) {
	body, err := c.do(http.MethodGet, settingsEndpoint, nil)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse settings response: %w", err)
	}
	return doc, nil
}

// PutSettings uploads a settings document and returns the document the
// service accepted.
func (c *Client) PutSettings(doc map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	body, err := c.do(http.MethodPut, settingsEndpoint, payload)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(body)
	if err != nil {
		return nil, err
	}
	var accepted map[string]any
	if err := json.Unmarshal(result.Value, &accepted); err != nil {
		return nil, fmt.Errorf("parse updated settings: %w", err)
	}
	return accepted, nil
}

// Shutdown asks the service to exit and returns its acknowledgement text.
func (c *Client) Shutdown() (string, error) {
	body, err := c.do(http.MethodPost, "/v0/shutdown", nil)
	if err != nil {
		return "", err
	}
	result, err := parseResult(body)
	if err != nil {
		return "", err
	}
	return valueText(result.Value), nil
}

func (c *Client) do(method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}
	return body, nil
}

// errorFromResponse prefers the server's own wording: an error envelope's
// value is surfaced verbatim, anything else falls back to the status code.
func errorFromResponse(statusCode int, body []byte) error {
	if result, err := parseResult(body); err == nil && fmt.Sprintf("%v", result.Status) == "error" {
		return fmt.Errorf("%s", valueText(result.Value))
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Errorf("server returned status %d", statusCode)
	}
	return fmt.Errorf("server returned status %d: %s", statusCode, text)
}

func parseResult(body []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return Result{}, fmt.Errorf("parse server response: %w", err)
	}
	return result, nil
}

func valueText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}
