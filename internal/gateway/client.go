package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/metrics"
)

const maxErrorBody = 64 << 10

// TokenProvider is the shared source of the bearer token.
type TokenProvider interface {
	// AccessToken returns the current token, or false when none is available.
	AccessToken(ctx context.Context) (string, bool)
	// ClearToken discards the cached token.
	ClearToken()
}

// Client is a pre-configured HTTP client for one remote service. It attaches
// the bearer token to every request and invalidates the session when the
// service answers 401. It never retries and never rewrites errors.
type Client struct {
	service       string
	baseURL       string
	tokens        TokenProvider
	httpClient    *http.Client
	onAuthExpired func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAuthExpired registers the callback run after the token was cleared
// because of a 401 response.
func WithAuthExpired(fn func()) Option {
	return func(c *Client) {
		c.onAuthExpired = fn
	}
}

func New(service, baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Service() string {
	return c.service
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.AccessToken(ctx); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(c.service, "error").Inc()
		return err
	}
	defer resp.Body.Close()
	metrics.GatewayRequests.WithLabelValues(c.service, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Service:    c.service,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode %s %s response: %w", c.service, method, path, err)
	}
	return nil
}

func (c *Client) expire() {
	metrics.GatewayAuthExpired.WithLabelValues(c.service).Inc()
	if c.tokens != nil {
		c.tokens.ClearToken()
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}
