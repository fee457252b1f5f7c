package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-tool-manager/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(tt.timeout)

			require.NotNil(t, client, "client should not be nil")
		})
	}
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		responseBody string
	}{
		{
			name:         "successful JSON response",
			responseBody: `{"message": "success"}`,
		},
		{
			name:         "successful plain text response",
			responseBody: "plain text content",
		},
		{
			name:         "empty response body",
			responseBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var receivedUserAgent string
			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedUserAgent = r.Header.Get("User-Agent")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(0)
			body, err := client.Get(context.Background(), mockServer.URL)

			require.NoError(t, err)
			assert.Equal(t, []byte(tt.responseBody), body)
			assert.Equal(t, httpclient.UserAgent, receivedUserAgent)
		})
	}
}

func TestDefaultClient_Get_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(0)
	_, err := client.Get(context.Background(), mockServer.URL)

	require.Error(t, err)

	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, mockServer.URL, httpErr.URL)
	assert.Equal(t, int32(1), requests.Load(), "4xx responses must not be retried")
}

func TestDefaultClient_Get_ServerErrorRetried(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("recovered"))
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(0)
	body, err := client.Get(context.Background(), mockServer.URL)

	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), body)
	assert.Equal(t, int32(3), requests.Load())
}

func TestDefaultClient_Get_InvalidURL(t *testing.T) {
	t.Parallel()

	client := httpclient.NewDefaultClient(0)
	_, err := client.Get(context.Background(), "://not-a-url")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create request")
}
