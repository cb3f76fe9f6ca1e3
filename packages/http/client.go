package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	neturl "net/url"
	"strconv"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
)

const (
	// DefaultConnectTimeout applies until a connectTimeout directive arrives
	DefaultConnectTimeout = 30 * time.Second
	// DefaultReadTimeout applies until a readTimeout directive arrives
	DefaultReadTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client is the HTTP engine test suites run on. It accepts the resolver's
// directives through Configure and may be reconfigured while in use.
type Client struct {
	mu             sync.RWMutex
	httpClient     *http.Client
	transport      *http.Transport
	connectTimeout time.Duration
	readTimeout    time.Duration
	ssl            bool
	followRedirect bool
	maxRedirects   int
	defaultHeaders map[string]string
}

// Settings is a snapshot of the directive-controlled options
type Settings struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	SSL            bool
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rebuild()
	return c
}

func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

func WithReadTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.readTimeout = d
	}
}

// WithSSL enables HTTPS without certificate verification
func WithSSL(enabled bool) ClientOption {
	return func(c *Client) {
		c.ssl = enabled
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithDefaultHeaders sets headers sent with every request
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// rebuild replaces the transport after a settings change. Callers must hold
// mu for writing, or own c exclusively.
func (c *Client) rebuild() {
	dialer := &net.Dialer{
		Timeout:   c.connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   c.connectTimeout,
		ResponseHeaderTimeout: c.readTimeout,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
	}

	if c.ssl {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	c.transport = transport
	c.httpClient = &http.Client{
		Transport:     transport,
		CheckRedirect: redirectPolicy,
	}
}

// Configure applies one engine directive. Timeouts are milliseconds given
// as an integer, a float, a numeric string, or a time.Duration.
func (c *Client) Configure(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch key {
	case target.DirectiveConnectTimeout:
		d, err := toDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.connectTimeout = d
	case target.DirectiveReadTimeout:
		d, err := toDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.readTimeout = d
	case target.DirectiveSSL:
		enabled, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%s: expected bool, got %T", key, value)
		}
		c.ssl = enabled
	default:
		return fmt.Errorf("unknown directive %q", key)
	}

	c.rebuild()
	return nil
}

func (c *Client) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Settings{
		ConnectTimeout: c.connectTimeout,
		ReadTimeout:    c.readTimeout,
		SSL:            c.ssl,
	}
}

// largest millisecond count a time.Duration holds
const maxTimeoutMs = float64(math.MaxInt64/int64(time.Millisecond)) - 1

func toDuration(value any) (time.Duration, error) {
	var ms float64
	switch v := value.(type) {
	case time.Duration:
		if v < 0 {
			return 0, fmt.Errorf("negative timeout %v", v)
		}
		return v, nil
	case int:
		ms = float64(v)
	case int64:
		ms = float64(v)
	case float64:
		ms = v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q", v)
		}
		ms = f
	default:
		return 0, fmt.Errorf("expected milliseconds, got %T", value)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("invalid timeout %v", ms)
	}
	if ms < 0 {
		return 0, fmt.Errorf("negative timeout %v", ms)
	}
	if ms > maxTimeoutMs {
		return 0, fmt.Errorf("timeout %vms out of range", ms)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != "" {
		body = bytes.NewBufferString(req.Body)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	client := c.httpClient
	readTimeout := c.readTimeout
	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	c.mu.RUnlock()

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	// The body read gets its own readTimeout budget.
	if readTimeout > 0 {
		timer := time.AfterFunc(readTimeout, cancel)
		defer timer.Stop()
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	duration := time.Since(start)

	headers := make(map[string]string)
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       respBody,
		Duration:   duration,
	}, nil
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
	})
}

// CloseIdleConnections releases pooled connections
func (c *Client) CloseIdleConnections() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.transport.CloseIdleConnections()
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}

// JoinURL appends path to base without doubling the separating slash
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return base + path
}
