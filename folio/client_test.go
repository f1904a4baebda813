package folio

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name     string
		baseURL  string
		tenant   string
		username string
		password string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid config",
			tenant:   "diku",
			username: "admin",
			password: "secret",
		},
		{
			name:     "missing base URL",
			tenant:   "diku",
			username: "admin",
			password: "secret",
			wantErr:  true,
			errMsg:   "base URL is required",
		},
		{
			name:     "missing tenant",
			baseURL:  "http://localhost:9130",
			username: "admin",
			password: "secret",
			wantErr:  true,
			errMsg:   "tenant is required",
		},
		{
			name:    "missing credentials",
			baseURL: "http://localhost:9130",
			tenant:  "diku",
			wantErr: true,
			errMsg:  "username and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				_, err := Open(context.Background(), tt.baseURL, tt.tenant, tt.username, tt.password, logger)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			f := newFakeFolio(t)
			client, err := Open(context.Background(), f.srv.URL+"/", tt.tenant, tt.username, tt.password, logger)
			require.NoError(t, err)
			defer client.Close()

			assert.Equal(t, f.srv.URL, client.baseURL, "trailing slash should be trimmed")
			assert.Equal(t, "token-1", client.token)
			assert.Equal(t, "refresh-token-1", client.refreshToken)
			assert.False(t, client.tokenExpiry.IsZero())

			logins, _, _, _ := f.counts()
			assert.Equal(t, 1, logins)
		})
	}
}

func TestOpenRejectedCredentials(t *testing.T) {
	f := newFakeFolio(t)
	f.rejectLogin = true

	_, err := Open(context.Background(), f.srv.URL, "diku", "admin", "wrong", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOpenMissingTokenCookie(t *testing.T) {
	f := newFakeFolio(t)
	f.omitCookie = true

	_, err := Open(context.Background(), f.srv.URL, "diku", "admin", "secret", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "no access token received")
}

func TestOpenOptions(t *testing.T) {
	f := newFakeFolio(t)

	t.Run("with timeout", func(t *testing.T) {
		client := f.open(t, WithTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with page size", func(t *testing.T) {
		client := f.open(t, WithPageSize(25))
		assert.Equal(t, 25, client.pageSize)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client := f.open(t, WithHTTPClient(custom))
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("with auth retries", func(t *testing.T) {
		client := f.open(t, WithAuthRetries(3))
		assert.Equal(t, 3, client.authRetries)
	})

	t.Run("with refresh buffer", func(t *testing.T) {
		client := f.open(t, WithTokenRefreshBuffer(time.Minute))
		assert.Equal(t, time.Minute, client.refreshBuffer)
	})
}

func TestVerbReusesToken(t *testing.T) {
	f := newFakeFolio(t)
	f.handle("/users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[],"totalRecords":0}`))
	})
	client := f.open(t)

	_, err := client.Get(context.Background(), "/users", "users", "", 10)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/users", "users", "", 10)
	require.NoError(t, err)

	logins, refreshes, _, _ := f.counts()
	assert.Equal(t, 1, logins, "a valid token must not trigger a second login")
	assert.Equal(t, 0, refreshes)
}

func TestGetQueryParams(t *testing.T) {
	f := newFakeFolio(t)
	f.handle("/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "barcode==123", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"users":[{"id":"u1"}]}`))
	})
	client := f.open(t)

	body, err := client.Get(context.Background(), "/users", "users", "barcode==123", 5)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"u1"}]`, string(body))
}

func TestStatusMapping(t *testing.T) {
	f := newFakeFolio(t)
	client := f.open(t)
	ctx := context.Background()

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		f.handle("/users/missing", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "user not found", http.StatusNotFound)
		})
		err := client.Delete(ctx, "/users/missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("422 carries status and body", func(t *testing.T) {
		f.handle("/users", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":[{"message":"barcode taken"}]}`, http.StatusUnprocessableEntity)
		})
		_, err := client.Post(ctx, "/users", map[string]string{"username": "x"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "barcode taken")
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("500 is a plain APIError", func(t *testing.T) {
		f.handle("/loan-storage/loans", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := client.Get(ctx, "/loan-storage/loans", "loans", "", 0)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestPutRequiresPayload(t *testing.T) {
	f := newFakeFolio(t)
	client := f.open(t)

	_, err := client.Put(context.Background(), "/users/u1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload is required")
}

func TestClosedClient(t *testing.T) {
	f := newFakeFolio(t)
	client := f.open(t)

	require.NoError(t, client.Close())

	_, err := client.Get(context.Background(), "/users", "users", "", 0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = client.Post(context.Background(), "/users", map[string]string{})
	assert.ErrorIs(t, err, ErrClosed)
	err = client.Delete(context.Background(), "/users/u1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseLogsOutOnce(t *testing.T) {
	f := newFakeFolio(t)
	client := f.open(t)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, _, logouts, _ := f.counts()
	assert.Equal(t, 1, logouts, "logout must be attempted at most once")
}

func TestAPIError(t *testing.T) {
	t.Run("error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Body: "not here"}
		assert.Equal(t, "folio: API error: status 404: not here", err.Error())

		err = &APIError{StatusCode: 500}
		assert.Equal(t, "folio: API error: status 500", err.Error())
	})

	t.Run("classification", func(t *testing.T) {
		tests := []struct {
			code         int
			notFound     bool
			unauthorized bool
		}{
			{404, true, false},
			{401, false, true},
			{403, false, true},
			{500, false, false},
		}
		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.notFound, err.IsNotFound())
			assert.Equal(t, tt.unauthorized, err.IsUnauthorized())
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
		}
	})
}
