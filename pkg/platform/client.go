package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/backoffice/pkg/observability"
)

// TokenSource supplies the current bearer token; empty means unauthenticated
type TokenSource func() string

// TenantSource supplies the current tenant identifier; empty means none
type TenantSource func() string

// ClientConfig holds platform client configuration
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	// Tracing wraps the transport with otelhttp when true
	Tracing bool

	Token  TokenSource
	Tenant TenantSource
}

// Client is the typed HTTP client for the upstream platform API
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	tenant  TenantSource
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewClient creates a platform API client
func NewClient(cfg ClientConfig, logger *observability.Logger, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Tracing {
		transport = otelhttp.NewTransport(transport)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout, Transport: transport},
		token:   cfg.Token,
		tenant:  cfg.Tenant,
		logger:  logger,
		metrics: metrics,
	}
}

// do issues a request and decodes the JSON response into out (skipped when out
// is nil). Failures come back as classified *Error values.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if c.tenant != nil {
		if tenant := c.tenant(); tenant != "" {
			req.Header.Set("X-Tenant-ID", tenant)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamRequestsTotal.WithLabelValues(method, "network_error").Inc()
		}
		return &Error{Kind: KindTransient, Message: "upstream unreachable", cause: err}
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
		c.metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var envelope errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(data, &envelope)

	message := envelope.text()
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	kind := classifyStatus(resp.StatusCode)
	if kind == KindAuth && c.metrics != nil {
		c.metrics.AuthFailuresTotal.Inc()
	}

	return &Error{
		Kind:    kind,
		Status:  resp.StatusCode,
		Message: message,
	}
}
