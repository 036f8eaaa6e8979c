package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 1 << 20

// Client is an authenticated HTTP client for one site. It is safe for
// concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	log  hclog.Logger
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	endpoints, err := cfg.Endpoints.Normalize()
	if err != nil {
		return nil, err
	}
	cfg.Endpoints = endpoints
	cfg.applyDefaults()

	return &Client{
		cfg:  cfg,
		http: cfg.HTTPClient,
		log:  cfg.Logger.Named("http"),
	}, nil
}

// Endpoints returns the normalized base URLs.
func (c *Client) Endpoints() auth.Endpoints { return c.cfg.Endpoints }

// Logger returns the client logger.
func (c *Client) Logger() hclog.Logger { return c.log }

// MaxAttempts returns the configured number of tries per logical request.
func (c *Client) MaxAttempts() int { return c.cfg.MaxAttempts }

// Send issues a request without a body, retrying transient failures. On
// success the caller owns the response body.
func (c *Client) Send(ctx context.Context, method, url string) (*http.Response, error) {
	return c.send(ctx, method, url, nil)
}

// SendWithBody issues a request with body encoded as JSON, retrying transient
// failures. The body is encoded once and replayed on every attempt.
func (c *Client) SendWithBody(ctx context.Context, method, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding request body: %w", err)
	}
	return c.send(ctx, method, url, payload)
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	var resp *http.Response
	err := c.Retry(ctx, func(attempt int) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		r, err := c.do(req, attempt)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Do performs exactly one attempt of req after applying authentication and
// the common headers. Non-2xx responses are returned as *Error with the body
// already consumed. Components that stream bodies drive their own retries
// with Retry and Do.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, 1)
}

func (c *Client) do(req *http.Request, attempt int) (*http.Response, error) {
	if err := c.cfg.Credential.Apply(req); err != nil {
		return nil, err
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.CorrelationID != "" {
		req.Header.Set("X-Correlation-Id", c.cfg.CorrelationID)
	}

	url := req.URL.String()
	c.log.Debug("request", "method", req.Method, "url", url, "attempt", attempt)

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.log.Trace("request error", "method", req.Method, "url", url, "latency", latency, "error", err)
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{
			Kind:     KindTransient,
			Method:   req.Method,
			URL:      url,
			Attempts: attempt,
			Err:      err,
		}
	}

	c.log.Trace("response",
		"method", req.Method,
		"url", url,
		"status", resp.StatusCode,
		"latency", latency,
		"request_id", RequestID(resp.Header))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := statusError(req.Method, url, resp.StatusCode, resp.Header, body)
	apiErr.Attempts = attempt
	if len(body) > 0 {
		c.log.Trace("error body", "status", resp.StatusCode, "body", string(body))
	}
	return nil, apiErr
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	resp, err := c.Send(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// PostJSON issues a POST with in as the JSON body and decodes the response
// into out. out may be nil.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	resp, err := c.SendWithBody(ctx, http.MethodPost, url, in)
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// PutJSON issues a PUT with in as the JSON body and decodes the response into
// out. out may be nil.
func (c *Client) PutJSON(ctx context.Context, url string, in, out any) error {
	resp, err := c.SendWithBody(ctx, http.MethodPut, url, in)
	if err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// Delete issues a DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, url string) error {
	resp, err := c.Send(ctx, http.MethodDelete, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return protocolError(resp.Request.URL.String(), fmt.Errorf("error decoding response: %w", err))
	}
	return nil
}
