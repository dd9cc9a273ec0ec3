// Package backend is the REST client for the BITSS backend API.
package backend

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

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// envelope is the {success, message, data} wrapper used by most endpoints.
type envelope struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

type rawResponse struct {
	status int
	body   []byte
}

type request struct {
	method  string
	path    string
	token   string
	body    interface{}
	timeout time.Duration
}

// Client calls the backend API. Every call is bounded by a timeout and goes
// through one circuit breaker; nothing is retried.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	timeout      time.Duration
	orderTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker[*rawResponse]
	logger       *zap.Logger
}

// NewClient creates a backend client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return newClient(cfg, &http.Client{Timeout: cfg.OrderTimeout}, logger)
}

func newClient(cfg config.BackendConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	c := &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		timeout:      cfg.Timeout,
		orderTimeout: cfg.OrderTimeout,
		logger:       logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        "backend",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("BackendClient: circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// 4xx answers mean the backend is up.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			status := domainErrors.StatusOf(err)
			return status > 0 && status < http.StatusInternalServerError
		},
	})

	return c
}

// call sends one request through the breaker.
func (c *Client) call(ctx context.Context, op string, req request) (*rawResponse, error) {
	timeout := c.timeout
	if req.timeout > 0 {
		timeout = req.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.breaker.Execute(func() (*rawResponse, error) {
		return c.send(ctx, op, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("BackendClient: request refused by circuit breaker",
				zap.String("op", op),
				zap.Error(err))
			return nil, domainErrors.NewUnsentError(op, err)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, op string, req request) (*rawResponse, error) {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error("BackendClient: HTTP request failed",
			zap.String("op", op),
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Duration("request_duration", duration),
			zap.Error(err))
		return nil, domainErrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, domainErrors.NewNetworkError(op, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("BackendClient: HTTP request completed",
		zap.String("op", op),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("request_duration", duration))

	if resp.StatusCode >= http.StatusBadRequest {
		message := messageOf(data)
		c.logger.Warn("BackendClient: backend returned error status",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", message))
		return nil, domainErrors.NewStatusError(op, resp.StatusCode, message)
	}

	return &rawResponse{status: resp.StatusCode, body: data}, nil
}

// messageOf extracts the envelope message from an error body.
func messageOf(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

// decode unwraps the envelope into out. Bodies without a data field are
// decoded as a whole.
func decode(op string, raw *rawResponse, out interface{}) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return env, domainErrors.NewMalformedError(op, raw.status, "invalid response body", err)
	}
	if env.failed() {
		return env, domainErrors.NewStatusError(op, raw.status, env.Message)
	}
	if out == nil {
		return env, nil
	}

	payload := []byte(env.Data)
	if len(payload) == 0 || string(payload) == "null" {
		payload = raw.body
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return env, domainErrors.NewMalformedError(op, raw.status, "unexpected response shape", err)
	}
	return env, nil
}

func (c *Client) getJSON(ctx context.Context, op, path, token string, out interface{}) error {
	raw, err := c.call(ctx, op, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return err
	}
	_, err = decode(op, raw, out)
	return err
}
