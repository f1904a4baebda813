package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Authentication endpoints of mod-authtoken.
const (
	loginPath   = "/authn/login-with-expiry"
	refreshPath = "/authn/refresh"
	logoutPath  = "/authn/logout"
)

// Token cookies set by the platform on login and refresh.
const (
	accessTokenCookie  = "folioAccessToken"
	refreshTokenCookie = "folioRefreshToken"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessTokenExpiration  string `json:"accessTokenExpiration"`
	RefreshTokenExpiration string `json:"refreshTokenExpiration"`
}

// login performs a full credential login and replaces the token pair. Any
// non-2xx answer is reported as ErrUnauthorized; the password never leaves
// the client on any other call path.
func (c *Client) login(ctx context.Context) error {
	// Drop the old token so a re-login is never sent with a stale header.
	c.token = ""

	payload := loginRequest{Username: c.username, Password: c.password}
	resp, err := c.postAuth(ctx, loginPath, payload, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("FOLIO login rejected")
		return fmt.Errorf("folio: login failed with status %d: %w", resp.StatusCode, ErrUnauthorized)
	}

	return c.adoptTokens(resp)
}

// refresh rotates the token pair via the refresh endpoint, falling back to a
// full login when the refresh token is no longer accepted.
func (c *Client) refresh(ctx context.Context) error {
	resp, err := c.postAuth(ctx, refreshPath, nil, c.tokenCookies())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Msg("token refresh rejected, falling back to login")
		return c.login(ctx)
	}

	return c.adoptTokens(resp)
}

// ensureToken guarantees a valid token before a request is sent. A token
// inside its refresh buffer is rotated via the refresh endpoint; an expired
// or absent token forces a full re-login; otherwise this is a no-op so the
// password is only transmitted when strictly necessary.
func (c *Client) ensureToken(ctx context.Context) error {
	now := time.Now()
	switch {
	case c.token == "" || now.After(c.tokenExpiry):
		return c.login(ctx)
	case now.After(c.bufferedExpiry):
		return c.refresh(ctx)
	}
	return nil
}

// logout invalidates the session server-side. Failures are logged and
// swallowed since the session is being torn down either way.
func (c *Client) logout(ctx context.Context) {
	if c.loggedOut || c.token == "" {
		return
	}
	c.loggedOut = true

	resp, err := c.postAuth(ctx, logoutPath, nil, c.tokenCookies())
	if err != nil {
		c.logger.Warn().Err(err).Msg("FOLIO logout request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Msg("FOLIO logout rejected")
		return
	}
	c.logger.Debug().Msg("FOLIO session terminated")
}

// postAuth issues a POST against an authentication endpoint. Auth endpoints
// carry tokens as cookies rather than okapi headers, so this bypasses the
// regular send path and returns the raw response for cookie extraction.
func (c *Client) postAuth(ctx context.Context, path string, payload any, cookies string) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("folio: failed to encode payload: %w", err)
		}
		reqBody = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("folio: failed to create request: %w", err)
	}
	req.Header.Set(headerTenant, c.tenant)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("folio: request failed: %w", err)
	}
	return resp, nil
}

// adoptTokens extracts the token cookies and expiry from a successful login
// or refresh response and updates the session state.
func (c *Client) adoptTokens(resp *http.Response) error {
	var accessToken, refreshToken string
	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case accessTokenCookie:
			accessToken = cookie.Value
		case refreshTokenCookie:
			refreshToken = cookie.Value
		}
	}
	if accessToken == "" {
		return fmt.Errorf("folio: no access token received: %w", ErrUnauthorized)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("folio: failed to decode token response: %w", err)
	}
	expiry, err := time.Parse(time.RFC3339, tokens.AccessTokenExpiration)
	if err != nil {
		return fmt.Errorf("folio: invalid token expiration %q: %w", tokens.AccessTokenExpiration, err)
	}

	c.token = accessToken
	c.refreshToken = refreshToken
	c.tokenExpiry = expiry
	c.bufferedExpiry = expiry.Add(-c.refreshBuffer)

	c.logger.Debug().
		Time("expires", expiry).
		Msg("FOLIO token updated")
	return nil
}

// tokenCookies renders the current token pair in the cookie format the
// authentication endpoints expect.
func (c *Client) tokenCookies() string {
	return fmt.Sprintf("%s=%s; %s=%s",
		refreshTokenCookie, c.refreshToken,
		accessTokenCookie, c.token)
}
