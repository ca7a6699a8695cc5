package bfhl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const DefaultTimeout = 30 * time.Second

var Version = "dev"

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a client posting to endpoint. A zero timeout falls back
// to DefaultTimeout.
func NewClient(endpoint string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Process posts data to the endpoint and decodes the result.
func (c *Client) Process(ctx context.Context, data []string) (*Response, error) {
	body, err := json.Marshal(Request{Data: data})
	if err != nil {
		return nil, NewUnexpectedError(fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewUnexpectedError(fmt.Errorf("failed to create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dataproc/"+Version)
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("posting data", "endpoint", c.endpoint, "request_id", requestID, "tokens", len(data))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, NewTransportError(c.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, NewTransportError(c.endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("response received",
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		// unparseable failure bodies fall back to the status message
		_ = json.Unmarshal(raw, &failure)
		return nil, NewHTTPError(resp.StatusCode, failure.Error)
	}

	var result Response
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, NewUnexpectedError(fmt.Errorf("failed to decode response: %w", err))
	}
	result.Raw = json.RawMessage(raw)

	return &result, nil
}
