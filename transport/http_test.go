package transport_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/transport"
)

func TestHTTPClientFetch(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		target     string
		params     url.Values
		handler    http.HandlerFunc
		expBody    string
		expStatus  int
		expReqPath string
	}{
		{
			name:   "A successful response should return the body.",
			token:  "t0ken",
			target: "/search/repositories",
			params: url.Values{"q": {"stars:>1"}, "per_page": {"10"}},
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search/repositories" ||
					r.URL.Query().Get("q") != "stars:>1" ||
					r.URL.Query().Get("per_page") != "10" ||
					r.Header.Get("Authorization") != "Bearer t0ken" ||
					r.Header.Get("Accept") != "application/vnd.github+json" ||
					r.Header.Get("User-Agent") != "ghcollector" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				_, _ = w.Write([]byte(`{"items":[]}`))
			},
			expBody: `{"items":[]}`,
		},
		{
			name:   "Without token no authorization header should be sent.",
			target: "repos/a/b",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if _, ok := r.Header["Authorization"]; ok || r.URL.Path != "/repos/a/b" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				_, _ = w.Write([]byte(`{}`))
			},
			expBody: `{}`,
		},
		{
			name:   "A non successful status should be a status error.",
			target: "/repos/a/b",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
			},
			expStatus: http.StatusForbidden,
		},
		{
			name:   "A long error body should be truncated.",
			target: "/repos/a/b",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
			},
			expStatus: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			srv := httptest.NewServer(test.handler)
			defer srv.Close()

			c, err := transport.New(transport.Config{BaseURL: srv.URL, Token: test.token})
			require.NoError(err)
			require.NoError(c.Open())
			defer c.Close()

			body, err := c.Fetch(context.TODO(), test.target, test.params)

			if test.expStatus != 0 {
				var statusErr *transport.StatusError
				require.True(stderrors.As(err, &statusErr))
				assert.Equal(test.expStatus, statusErr.StatusCode)
				assert.LessOrEqual(len(statusErr.Body), 512)
				return
			}
			require.NoError(err)
			assert.Equal(test.expBody, string(body))
		})
	}
}

func TestHTTPClientLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := transport.New(transport.Config{BaseURL: srv.URL})
	require.NoError(err)

	assert.False(c.Active())
	_, err = c.Fetch(context.TODO(), "/x", nil)
	assert.ErrorIs(err, errors.ErrNotInitialized)

	require.NoError(c.Open())
	assert.True(c.Active())
	_, err = c.Fetch(context.TODO(), "/x", nil)
	assert.NoError(err)

	require.NoError(c.Close())
	assert.False(c.Active())
	_, err = c.Fetch(context.TODO(), "/x", nil)
	assert.ErrorIs(err, errors.ErrNotInitialized)

	// Reopening a closed client should work.
	require.NoError(c.Open())
	assert.True(c.Active())
	require.NoError(c.Close())
}

func TestHTTPClientContextCancel(t *testing.T) {
	require := require.New(t)

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c, err := transport.New(transport.Config{BaseURL: srv.URL})
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, "/x", nil)

	require.ErrorIs(err, context.Canceled)
}

func TestHTTPClientInvalidBaseURL(t *testing.T) {
	_, err := transport.New(transport.Config{BaseURL: "not a url"})

	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
