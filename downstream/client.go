package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/c360/shopgateway/errors"
)

// Config holds shared configuration for one backend client
type Config struct {
	// BaseURL is the backend's root URL, e.g. "http://order-service:8083"
	BaseURL string `json:"base_url"`

	// Timeout bounds the underlying HTTP client. The per-attempt resilience
	// timeout is enforced via context; this is a transport-level backstop.
	Timeout time.Duration `json:"timeout"`
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate", "base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return errors.WrapInvalid(err, "Config", "Validate", "invalid base_url")
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}

// client is the shared HTTP plumbing behind every typed backend client.
type client struct {
	service    string
	baseURL    string
	httpClient *http.Client
}

func newClient(service string, cfg Config) (*client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &client{
		service: service,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// do issues the request, propagates the caller identity, and maps the
// response into the gateway error taxonomy. On 404 it returns ErrNotFound;
// the caller decides whether absence is meaningful for its operation.
func (c *client) do(ctx context.Context, operation, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.WrapInvalid(err, c.service, operation, "request encode")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.WrapInvalid(err, c.service, operation, "request build")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal, ok := IdentityFromContext(ctx); ok {
		req.Header.Set(IdentityHeader, principal)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Surface the context error so the resilience layer can tell a
			// per-attempt timeout from a caller cancellation
			return fmt.Errorf("%s.%s: %w", c.service, operation, ctx.Err())
		}
		return errors.NewDownstream(c.service, operation, errors.KindConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s.%s: %w", c.service, operation, errors.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return errors.NewBadStatus(c.service, operation, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewDownstream(c.service, operation, errors.KindDecode, err)
	}
	return nil
}
