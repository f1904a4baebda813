package folio

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout for every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client is shared
// across all calls and iterators for the lifetime of the session.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithPageSize sets the number of records fetched per page by iterators.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTokenRefreshBuffer sets how long before the declared token expiry the
// client starts refreshing instead of reusing the current token.
func WithTokenRefreshBuffer(buffer time.Duration) Option {
	return func(c *Client) {
		if buffer >= 0 {
			c.refreshBuffer = buffer
		}
	}
}

// WithAuthRetries sets how many transparent re-logins are attempted when a
// request fails with 401 after the token expired in flight. Zero disables
// the retry entirely.
func WithAuthRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.authRetries = retries
		}
	}
}
