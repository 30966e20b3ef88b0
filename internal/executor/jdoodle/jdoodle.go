// Package jdoodle implements executor.Executor against the JDoodle remote
// execution API.
//
// The provider exposes a single synchronous endpoint: POST a script plus
// language/version identifiers, get back a JSON body with the captured
// output (or the provider's own error shape). This client validates inputs
// before touching the network, enforces a request timeout, and otherwise
// passes the response through untouched. No retries — execution is not
// idempotent from the provider's billing point of view.
package jdoodle

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

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
)

var _ executor.Executor = (*Client)(nil)

// Config holds the provider endpoint and credentials.
type Config struct {
	// URL is the provider's execute endpoint.
	URL string
	// ClientID and ClientSecret are the JDoodle API credentials. They ride
	// in the request body, as the provider requires.
	ClientID     string
	ClientSecret string
	// Timeout bounds the whole round trip. Without one a hung provider
	// would freeze the run button indefinitely.
	Timeout time.Duration
}

// DefaultConfig returns the production endpoint with a 30s timeout.
// Credentials always come from configuration.
func DefaultConfig() Config {
	return Config{
		URL:     "https://api.jdoodle.com/v1/execute",
		Timeout: 30 * time.Second,
	}
}

// Client is an HTTP client for the provider's execute endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New creates a Client. Credentials are required — a server without them
// should not register the run routes at all rather than fail per request.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("jdoodle: client credentials are required")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultConfig().URL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// payload is the provider's request body. Credentials travel alongside the
// script; stdin is omitted when empty, matching what the provider expects.
type payload struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Script       string `json:"script"`
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
	Stdin        string `json:"stdin,omitempty"`
}

// Execute validates the request, forwards it to the provider, and returns
// the response body verbatim.
//
// Validation failures never reach the network. Transport and provider
// failures come back as apperror.ErrExecution with the underlying detail
// attached — the handler surfaces that detail, since the provider's error
// text is part of the contract.
func (c *Client) Execute(ctx context.Context, req executor.Request) (json.RawMessage, error) {
	if req.Language == "" {
		return nil, apperror.ValidationFailed("language", "language is required")
	}
	if req.VersionIndex == "" {
		return nil, apperror.ValidationFailed("versionIndex", "versionIndex is required")
	}
	if req.Code == "" {
		return nil, apperror.ValidationFailed("code", "code is required")
	}

	body, err := json.Marshal(payload{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Script:       req.Code,
		Language:     req.Language,
		VersionIndex: req.VersionIndex,
		Stdin:        req.Stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("jdoodle: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jdoodle: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("provider call failed",
			slog.String("language", req.Language),
			slog.String("error", err.Error()),
		)
		return nil, apperror.ExecutionFailed(err.Error())
	}
	defer resp.Body.Close()

	// Cap the body read: the provider's responses are small, and a
	// misbehaving endpoint must not balloon memory.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperror.ExecutionFailed(fmt.Sprintf("reading provider response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("provider returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("language", req.Language),
		)
		return nil, apperror.ExecutionFailed(
			fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, respBody))
	}

	c.logger.Info("execution completed",
		slog.String("language", req.Language),
		slog.Duration("duration", time.Since(start)),
	)

	return json.RawMessage(respBody), nil
}
