package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeFolio is a minimal in-memory FOLIO used by the package tests. It
// implements the authentication endpoints and dispatches everything else to
// per-path handlers registered by each test.
type fakeFolio struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	tokenTTL      time.Duration
	logins        int
	refreshes     int
	logouts       int
	dataCalls     int
	validTokens   map[string]bool
	rejectLogin   bool
	rejectRefresh bool
	omitCookie    bool
	dataDelay     time.Duration
	handlers      map[string]http.HandlerFunc
}

func newFakeFolio(t *testing.T) *fakeFolio {
	f := &fakeFolio{
		t:           t,
		tokenTTL:    time.Hour,
		validTokens: make(map[string]bool),
		handlers:    make(map[string]http.HandlerFunc),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

// handle registers a handler for a data path. Requests only reach it with a
// token the server considers valid.
func (f *fakeFolio) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeFolio) setTokenTTL(ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenTTL = ttl
}

func (f *fakeFolio) invalidateTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token := range f.validTokens {
		f.validTokens[token] = false
	}
}

func (f *fakeFolio) counts() (logins, refreshes, logouts, dataCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins, f.refreshes, f.logouts, f.dataCalls
}

func (f *fakeFolio) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-okapi-tenant") == "" {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	switch r.URL.Path {
	case "/authn/login-with-expiry":
		f.mu.Lock()
		f.logins++
		n := f.logins
		reject := f.rejectLogin
		f.mu.Unlock()
		if reject {
			http.Error(w, "bad credentials", http.StatusUnprocessableEntity)
			return
		}
		f.issueTokens(w, fmt.Sprintf("token-%d", n))

	case "/authn/refresh":
		f.mu.Lock()
		f.refreshes++
		n := f.refreshes
		reject := f.rejectRefresh
		f.mu.Unlock()
		if reject {
			http.Error(w, "refresh token expired", http.StatusUnauthorized)
			return
		}
		f.issueTokens(w, fmt.Sprintf("token-r%d", n))

	case "/authn/logout":
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		f.mu.Lock()
		f.dataCalls++
		valid := f.validTokens[r.Header.Get("x-okapi-token")]
		handler := f.handlers[r.URL.Path]
		delay := f.dataDelay
		f.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if !valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if handler == nil {
			w.Write([]byte(`{}`))
			return
		}
		handler(w, r)
	}
}

func (f *fakeFolio) issueTokens(w http.ResponseWriter, token string) {
	f.mu.Lock()
	f.validTokens[token] = true
	ttl := f.tokenTTL
	omit := f.omitCookie
	f.mu.Unlock()

	if !omit {
		http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: token})
		http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: "refresh-" + token})
	}
	json.NewEncoder(w).Encode(map[string]string{
		"accessTokenExpiration":  time.Now().Add(ttl).UTC().Format(time.RFC3339Nano),
		"refreshTokenExpiration": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339Nano),
	})
}

// open creates a client against the fake server with sane test defaults.
func (f *fakeFolio) open(t *testing.T, opts ...Option) *Client {
	client, err := Open(context.Background(), f.srv.URL, "diku", "admin", "secret", zerolog.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}
