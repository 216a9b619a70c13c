package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource resolves the bearer token attached to authenticated requests.
// It is consulted on every call; the session layer backs it with durable
// storage.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// APIError carries a non-2xx backend response: HTTP status plus the
// backend-provided message when one was present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsNotFound reports whether err is a backend 404. Several flows treat 404
// as a normal branch, not a failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is the REST client for the backend that owns all business logic.
// Requests run through a circuit breaker so a dead backend fails fast
// instead of piling up timed-out calls.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker[httpResult]
	log     *logrus.Logger
}

type httpResult struct {
	status int
	body   []byte
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logrus.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[httpResult](gobreaker.Settings{
		Name:    "backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state change")
		},
	})

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:  tokens,
		breaker: breaker,
		log:     log,
	}
}

// do issues one request and decodes a 2xx JSON body into out (out may be
// nil). 4xx responses become *APIError without tripping the breaker; 5xx and
// transport errors count as breaker failures.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.breaker.Execute(func() (httpResult, error) {
		resp, errDo := c.http.Do(req)
		if errDo != nil {
			return httpResult{}, fmt.Errorf("%s %s: %w", method, path, errDo)
		}
		defer resp.Body.Close()

		data, errRead := io.ReadAll(resp.Body)
		if errRead != nil {
			return httpResult{}, fmt.Errorf("read response body: %w", errRead)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return httpResult{}, decodeAPIError(resp.StatusCode, data)
		}
		return httpResult{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		return err
	}

	if res.status >= http.StatusBadRequest {
		return decodeAPIError(res.status, res.body)
	}

	if out != nil && len(res.body) > 0 {
		if errDecode := json.Unmarshal(res.body, out); errDecode != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, errDecode)
		}
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	// Body may not be JSON at all; the status alone still makes a usable error.
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	return &APIError{StatusCode: status, Code: payload.Code, Message: message}
}
