package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Default settings mirroring the platform conventions.
const (
	DefaultTimeout       = 60 * time.Second
	DefaultPageSize      = 100
	DefaultRefreshBuffer = 10 * time.Second
	DefaultAuthRetries   = 1
)

// Okapi headers used to address a tenant and carry the session token.
const (
	headerTenant = "x-okapi-tenant"
	headerToken  = "x-okapi-token"
)

// Client is a session-scoped FOLIO API client. It owns a persistent HTTP
// connection, the access/refresh token pair and their expiry, and provides
// generic verb methods plus a pagination iterator. A Client is bound to a
// single logical session and is not safe for concurrent use.
type Client struct {
	baseURL  string
	tenant   string
	username string
	password string

	httpClient *http.Client
	logger     zerolog.Logger

	timeout       time.Duration
	pageSize      int
	refreshBuffer time.Duration
	authRetries   int

	token          string
	refreshToken   string
	tokenExpiry    time.Time
	bufferedExpiry time.Time

	closed    bool
	loggedOut bool
}

// Open creates a new client and logs in against the tenant. The returned
// client holds a valid token; callers must Close it to log out and release
// the connection.
func Open(ctx context.Context, baseURL, tenant, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("folio: base URL is required")
	}
	if tenant == "" {
		return nil, fmt.Errorf("folio: tenant is required")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("folio: username and password are required")
	}

	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		tenant:        tenant,
		username:      username,
		password:      password,
		logger:        logger,
		timeout:       DefaultTimeout,
		pageSize:      DefaultPageSize,
		refreshBuffer: DefaultRefreshBuffer,
		authRetries:   DefaultAuthRetries,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}

	if err := client.login(ctx); err != nil {
		return nil, err
	}

	client.logger.Debug().
		Str("folio", client.baseURL).
		Str("tenant", client.tenant).
		Msg("FOLIO session established")

	return client, nil
}

// Close logs out and releases the underlying connection. It is safe to call
// more than once; the logout request is issued at most once.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	c.logout(ctx)

	c.httpClient.CloseIdleConnections()
	return nil
}

// Get issues a GET against path. When key is non-empty, the array or object
// at that top-level key of the response document is returned; an absent key
// yields nil. The query string is CQL and is passed through verbatim. A
// positive limit caps the number of records the module returns.
func (c *Client) Get(ctx context.Context, path, key, query string, limit int) (json.RawMessage, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return json.RawMessage(body), nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("folio: failed to decode response: %w", err)
	}
	return doc[key], nil
}

// Post creates a record. The response body is returned as-is; modules that
// answer 201/204 without a body yield nil.
func (c *Client) Post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// Put replaces a record. The payload must not be nil.
func (c *Client) Put(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, fmt.Errorf("folio: payload is required for PUT")
	}
	body, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// Delete removes a record. A missing id surfaces as ErrNotFound.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// do performs an authenticated request. It ensures the token is valid first,
// and on a 401 re-authenticates and retries only when the token provably
// expired after the validity check (the stale-token case), never on fresh
// credentials being rejected.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	relogins := 0
	for {
		expiry := c.tokenExpiry
		body, err := c.send(ctx, method, path, params, payload)
		if err == nil {
			return body, nil
		}

		var apiErr *APIError
		stale := errors.As(err, &apiErr) &&
			apiErr.StatusCode == http.StatusUnauthorized &&
			time.Now().After(expiry)
		if !stale || relogins >= c.authRetries {
			return nil, err
		}

		relogins++
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("attempt", relogins).
			Msg("token expired in flight, re-authenticating")
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}
}

// send issues a single HTTP request with tenant and token headers and maps
// non-2xx statuses to APIError. Network errors propagate wrapped, unretried.
func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("folio: failed to encode payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("folio: failed to create request: %w", err)
	}
	req.Header.Set(headerTenant, c.tenant)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(headerToken, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("folio: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("folio: failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("FOLIO request failed")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
