package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/discovery"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/server"
	"github.com/neckcare/neckscan/internal/version"
)

const (
	// DefaultTimeout bounds a single analysis round trip
	DefaultTimeout = 90 * time.Second

	// DefaultMaxRetries applies to health checks only; analyses are never retried
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between health check attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// Health is the body of GET /healthz
type Health struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// Client analyzes photos on a neckscan server over HTTP. It implements
// analysis.Analyzer, so a session can run against a LAN server instead of
// calling Gemini itself.
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the number of extra health check attempts
	MaxRetries int

	// RetryDelay is the initial delay between health check attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// NewClientForInstance creates a client for a discovered server
func NewClientForInstance(inst *discovery.Instance) *Client {
	return NewClient(inst.BaseURL())
}

// Health checks that the server is up, retrying with exponential backoff
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(currentDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		health, err := c.healthAttempt(ctx)
		if err == nil {
			return health, nil
		}
		lastErr = err
		logging.Debug("Health check failed",
			zap.String("server", c.BaseURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

func (c *Client) healthAttempt(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &health, nil
}

// Analyze sends img to POST /api/analyze. Exactly one request is made.
//
// A reply that carries an error message becomes a transport error whose user
// message is the server's; an undecodable reply is malformed.
func (c *Client) Analyze(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
	body, err := json.Marshal(server.AnalyzeRequest{Image: img.DataURI(), Name: img.Name})
	if err != nil {
		return nil, analysis.NewUnexpectedError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, analysis.NewUnexpectedError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, analysis.NewTransportError("remote analysis cancelled", ctx.Err())
		}
		return nil, analysis.NewTransportError("server unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, analysis.NewTransportError("failed to read response", err)
	}
	logging.Debug("Remote analysis finished",
		zap.String("server", c.BaseURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		var errResp server.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil || errResp.Message == "" {
			return nil, analysis.NewTransportError(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
		}
		return nil, analysis.NewTransportError(errResp.Error, errors.New(errResp.Message))
	}

	var out server.AnalyzeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, analysis.NewMalformedError("failed to parse server response", err)
	}
	if out.Snapshot.Result == nil {
		return nil, analysis.NewMalformedError("server response has no result", nil)
	}
	return out.Snapshot.Result, nil
}
