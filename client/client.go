package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/retry"
)

// DefaultTimeout bounds one HTTP attempt. It exceeds the gateway's own
// upstream deadline so the gateway's classification arrives first.
const DefaultTimeout = 45 * time.Second

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the gateway origin, e.g. https://bloom.example.com.
	BaseURL string

	// Path is the generation endpoint (default: /generate).
	Path string

	// HTTPClient overrides the HTTP client. Defaults to one with DefaultTimeout.
	HTTPClient *http.Client

	// RetryConfig configures retry behavior.
	// If nil, uses retry.DefaultConfig() (2 retries, 1s base delay).
	RetryConfig *retry.Config

	// Events is an optional channel for receiving retry events.
	Events chan<- retry.Event
}

// Client calls the gateway with retries.
type Client struct {
	endpoint string
	http     *http.Client
	retry    retry.Config
	events   chan<- retry.Event
}

// New creates a Client.
func New(cfg Config) *Client {
	path := cfg.Path
	if path == "" {
		path = "/generate"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	retryCfg := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryCfg = *cfg.RetryConfig
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + path,
		http:     httpClient,
		retry:    retryCfg,
		events:   cfg.Events,
	}
}

// Generate asks the gateway for a sculpture of photo in the given style and
// returns the image as a data URI. Transient failures are retried; the last
// failure is returned when attempts run out or a non-retryable one occurs.
func (c *Client) Generate(ctx context.Context, photo, style string) (string, error) {
	body, err := json.Marshal(bloom.GenerationRequest{Photo: photo, Style: style})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	return retry.DoWithEvents(ctx, c.retry, c.events, func() (string, error) {
		return c.attempt(ctx, body)
	})
}

// attempt performs one call to the gateway.
func (c *Client) attempt(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", bloom.NewTransportError("gateway unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", bloom.NewTransportError("reading gateway response", err)
	}

	var result bloom.GenerationResult
	decodeErr := json.Unmarshal(data, &result)

	if decodeErr == nil && result.Code != "" {
		return "", result.Err(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusOK && decodeErr == nil {
		if result.Success && result.Image != "" {
			return result.Image, nil
		}
		return "", bloom.NewNoImageError(bloom.ReasonNoImagePart, nil)
	}
	return "", statusError(resp.StatusCode, data)
}

// statusError classifies a reply that carries no error code.
func statusError(status int, body []byte) *bloom.Error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status >= 500 || status == http.StatusTooManyRequests || status == http.StatusRequestEntityTooLarge {
		return bloom.NewUpstreamError(msg, status, http.StatusText(status), nil)
	}
	if status == http.StatusMethodNotAllowed {
		return &bloom.Error{Kind: bloom.KindMethodNotAllowed, Msg: msg}
	}
	return bloom.NewInvalidInputError(msg, nil)
}
