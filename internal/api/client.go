// Package api provides the HTTP client for the restaurant back-office API.
// It attaches the stored access token to every request and renews it
// transparently when the server answers 401.
package api

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

	"github.com/google/uuid"
	"github.com/restohub/resto-cli/internal/credentials"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIPrefix is the version prefix inserted between the base URL and endpoints
	DefaultAPIPrefix = "api/v1"

	// DefaultRefreshEndpoint is the endpoint exchanging a refresh token for a new access token
	DefaultRefreshEndpoint = "auth/refresh"

	// DefaultTimeout bounds every HTTP exchange
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the identifier shared by a request and its retry
	RequestIDHeader = "X-Request-ID"
)

// Client is an HTTP client for the back-office API
type Client struct {
	baseURL         string
	apiPrefix       string
	refreshEndpoint string
	timeout         time.Duration
	httpClient      *http.Client
	creds           *credentials.Credentials
	limiter         *rate.Limiter
	logger          *zap.Logger
	refresher       *refresher
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of each HTTP exchange
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithAPIPrefix sets the version prefix, e.g. "api/v2"
func WithAPIPrefix(prefix string) Option {
	return func(c *Client) {
		c.apiPrefix = prefix
	}
}

// WithRefreshEndpoint sets the endpoint used to renew the access token
func WithRefreshEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.refreshEndpoint = endpoint
		}
	}
}

// WithLogger sets the logger; the client is silent by default
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRateLimit throttles outgoing requests to limit per second with the given burst
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// NewClient creates a new API client reading its tokens from creds
func NewClient(baseURL string, creds *credentials.Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:         baseURL,
		apiPrefix:       DefaultAPIPrefix,
		refreshEndpoint: DefaultRefreshEndpoint,
		timeout:         DefaultTimeout,
		creds:           creds,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.creds == nil {
		c.creds = credentials.New(credentials.NewMemoryStore())
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}
	c.refresher = newRefresher(c.creds, c.exchangeRefreshToken, c.timeout)

	return c
}

// Credentials returns the token storage used by the client
func (c *Client) Credentials() *credentials.Credentials {
	return c.creds
}

// URL returns the absolute URL of an endpoint
func (c *Client) URL(endpoint string) string {
	return joinURL(c.baseURL, c.apiPrefix, endpoint)
}

type requestConfig struct {
	requiresAuth bool
	header       http.Header
	query        url.Values
}

// RequestOption adjusts a single request
type RequestOption func(*requestConfig)

// WithoutAuth sends the request without the Authorization header and
// reports a 401 as a plain APIError
func WithoutAuth() RequestOption {
	return func(cfg *requestConfig) {
		cfg.requiresAuth = false
	}
}

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		cfg.header.Add(key, value)
	}
}

// WithQuery appends query parameters to the endpoint
func WithQuery(query url.Values) RequestOption {
	return func(cfg *requestConfig) {
		for key, values := range query {
			for _, v := range values {
				cfg.query.Add(key, v)
			}
		}
	}
}

// apiCall is one logical request; it may be sent twice when the token is renewed
type apiCall struct {
	method    string
	url       string
	jsonBody  []byte
	form      *Form
	auth      bool
	header    http.Header
	requestID string
	logger    *zap.Logger
}

type response struct {
	statusCode int
	body       []byte
}

// Request performs an HTTP request to the API and decodes the JSON answer into result.
// data may be nil, a *Form for multipart uploads, or any value encoded as JSON.
func (c *Client) Request(ctx context.Context, method, endpoint string, data, result any, opts ...RequestOption) error {
	call, err := c.newCall(method, endpoint, data, opts)
	if err != nil {
		return err
	}

	token := ""
	if call.auth {
		token = c.creds.AccessToken(ctx)
	}

	resp, err := c.send(ctx, call, token)
	if err != nil {
		return err
	}

	if resp.statusCode == http.StatusUnauthorized && call.auth {
		retry := func(ctx context.Context, accessToken string) (*response, error) {
			return c.retry(ctx, call, accessToken)
		}
		resp, err = c.refresher.retryAfterRefresh(ctx, token, retry, call.logger)
		if err != nil {
			return err
		}
	}

	return resp.decode(result)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, endpoint string, result any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, result, opts...)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, endpoint string, data, result any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPost, endpoint, data, result, opts...)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, endpoint string, data, result any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPut, endpoint, data, result, opts...)
}

// Patch performs a PATCH request
func (c *Client) Patch(ctx context.Context, endpoint string, data, result any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodPatch, endpoint, data, result, opts...)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, endpoint string, result any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, result, opts...)
}

// Do performs a request and returns the decoded body as T.
// An empty successful body yields the zero value of T.
func Do[T any](ctx context.Context, c *Client, method, endpoint string, data any, opts ...RequestOption) (T, error) {
	var result T
	if err := c.Request(ctx, method, endpoint, data, &result, opts...); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (c *Client) newCall(method, endpoint string, data any, opts []RequestOption) (*apiCall, error) {
	cfg := requestConfig{
		requiresAuth: true,
		header:       http.Header{},
		query:        url.Values{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	target := c.URL(endpoint)
	if len(cfg.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + cfg.query.Encode()
	}

	requestID := uuid.NewString()
	cl := &apiCall{
		method:    method,
		url:       target,
		auth:      cfg.requiresAuth,
		header:    cfg.header,
		requestID: requestID,
		logger: c.logger.With(
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
		),
	}

	switch body := data.(type) {
	case nil:
	case *Form:
		cl.form = body
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		cl.jsonBody = jsonBody
	}

	return cl, nil
}

// send performs one HTTP exchange and reads the whole response body
func (c *Client) send(ctx context.Context, call *apiCall, accessToken string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case call.form != nil:
		// The multipart content type carries the boundary; never send JSON here
		reader, formType, err := call.form.encode()
		if err != nil {
			return nil, err
		}
		bodyReader = reader
		contentType = formType
	case call.jsonBody != nil:
		bodyReader = bytes.NewReader(call.jsonBody)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, call.method, call.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range call.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, call.requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if call.auth && accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	call.logger.Debug("sending request", zap.Bool("authenticated", call.auth && accessToken != ""))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		call.logger.Debug("request failed", zap.Error(err))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	call.logger.Debug("received response", zap.Int("status", resp.StatusCode))

	return &response{statusCode: resp.StatusCode, body: respBody}, nil
}

// retry resends a call with a renewed token. A second 401 ends the session
// instead of starting another refresh.
func (c *Client) retry(ctx context.Context, call *apiCall, accessToken string) (*response, error) {
	resp, err := c.send(ctx, call, accessToken)
	if err != nil {
		return nil, err
	}
	if resp.statusCode == http.StatusUnauthorized {
		call.logger.Warn("request rejected again after token refresh")
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// decode turns a response into either the decoded result or an error
func (r *response) decode(result any) error {
	if r.statusCode < 200 || r.statusCode > 299 {
		return newAPIError(r.statusCode, r.body)
	}

	body := bytes.TrimSpace(r.body)
	if len(body) == 0 {
		return nil
	}

	if result == nil {
		if !json.Valid(body) {
			return fmt.Errorf("failed to parse response: %w", ErrInvalidResponse)
		}
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// joinURL joins base URL, prefix and endpoint with exactly one slash between parts
func joinURL(baseURL, prefix, endpoint string) string {
	parts := []string{strings.TrimRight(baseURL, "/")}
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	if e := strings.TrimLeft(endpoint, "/"); e != "" {
		parts = append(parts, e)
	}
	return strings.Join(parts, "/")
}
