// Package supabase implements the outbound adapters for the hosted backend:
// the GoTrue identity provider and the PostgREST data-store API. Both share a
// single explicitly constructed HTTP client whose lifecycle is owned by the
// process entry point.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to reach a Supabase project.
type Config struct {
	URL            string // project base URL, e.g. https://xyz.supabase.co
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// Client is the shared transport for the GoTrue and PostgREST adapters.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		http:       &http.Client{Timeout: timeout},
		log:        log,
	}
}

// request describes a single call against the hosted API.
type request struct {
	method  string
	path    string
	query   url.Values
	headers map[string]string
	body    any
	admin   bool // use the service-role key instead of the anon key
}

// do executes the request and returns the status code with the raw body.
// Transport failures and 5xx responses map to domain.ErrServiceUnavailable;
// GETs are retried once since they are safe to repeat.
func (c *Client) do(ctx context.Context, req request) (int, []byte, error) {
	attempts := 1
	if req.method == http.MethodGet {
		attempts = 2
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		status, body, err := c.doOnce(ctx, req)
		if err == nil && status < http.StatusInternalServerError {
			return status, body, nil
		}
		if err == nil {
			lastErr = fmt.Errorf("%w: upstream returned %d", domain.ErrServiceUnavailable, status)
		} else {
			lastErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return 0, nil, lastErr
}

// Health checks reachability of the hosted auth API. Used by the readiness
// probe.
func (c *Client) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("auth health: status %d", status)
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, req request) (int, []byte, error) {
	var payload io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	key := c.anonKey
	if req.admin {
		key = c.serviceKey
	}
	httpReq.Header.Set("apikey", key)
	httpReq.Header.Set("Authorization", "Bearer "+key)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("path", req.path).Msg("supabase request failed")
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %v", domain.ErrServiceUnavailable, err)
	}
	return resp.StatusCode, body, nil
}
