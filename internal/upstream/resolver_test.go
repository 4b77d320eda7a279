package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const titleResponse = `{"product":{"item":{"product_description":{"title":"Test Title"}}}}`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_HTTPResolver_Resolve(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expected    string
		expectedErr error
	}{
		{
			name:     "Success - title extracted as plain string",
			status:   http.StatusOK,
			body:     titleResponse,
			expected: "Test Title",
		},
		{
			name:     "Success - escaped characters are unescaped",
			status:   http.StatusOK,
			body:     `{"product":{"item":{"product_description":{"title":"Kid's \"Toy\""}}}}`,
			expected: `Kid's "Toy"`,
		},
		{
			name:        "Error - title missing at leaf",
			status:      http.StatusOK,
			body:        `{"product":{"item":{"product_description":{}}}}`,
			expectedErr: ErrNameNotFound,
		},
		{
			name:        "Error - path missing at intermediate level",
			status:      http.StatusOK,
			body:        `{"product":{}}`,
			expectedErr: ErrNameNotFound,
		},
		{
			name:        "Error - intermediate node is not an object",
			status:      http.StatusOK,
			body:        `{"product":"oops"}`,
			expectedErr: ErrNameNotFound,
		},
		{
			name:        "Error - body is not JSON",
			status:      http.StatusOK,
			body:        `<html>not json</html>`,
			expectedErr: ErrUpstreamResponse,
		},
		{
			name:        "Error - title is not a string",
			status:      http.StatusOK,
			body:        `{"product":{"item":{"product_description":{"title":42}}}}`,
			expectedErr: ErrUpstreamResponse,
		},
		{
			name:        "Error - upstream 5xx",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			expectedErr: ErrUpstreamUnavailable,
		},
		{
			name:        "Error - upstream 404",
			status:      http.StatusNotFound,
			body:        `{}`,
			expectedErr: ErrUpstreamUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			server := newServer(t, tc.status, tc.body)
			resolver := NewHTTPResolver(server.Client(), server.URL+"/v2/pdp/tcin/{id}")
			// when
			name, err := resolver.Resolve(context.Background(), 13860428)
			// then
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Empty(t, name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, name)
		})
	}
}

func Test_HTTPResolver_ExpandsTemplate(t *testing.T) {
	// given
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write([]byte(titleResponse))
	}))
	t.Cleanup(server.Close)
	resolver := NewHTTPResolver(server.Client(), server.URL+"/v2/pdp/tcin/{id}")

	// when
	_, err := resolver.Resolve(context.Background(), 13860428)

	// then
	require.NoError(t, err)
	assert.Equal(t, "/v2/pdp/tcin/13860428", requestedPath)
}

func Test_HTTPResolver_BadTemplate(t *testing.T) {
	testCases := []struct {
		name     string
		template string
	}{
		{name: "missing placeholder", template: "https://example.com/v2/pdp/tcin/1"},
		{name: "not a URL", template: "://bad-url/{id}"},
		{name: "unsupported scheme", template: "ftp://example.com/{id}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := NewHTTPResolver(&http.Client{}, tc.template)
			_, err := resolver.Resolve(context.Background(), 1)
			assert.ErrorIs(t, err, ErrURIBuild)
		})
	}
}

func Test_HTTPResolver_TransportFailure(t *testing.T) {
	// given: a server that is already gone
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	resolver := NewHTTPResolver(&http.Client{Timeout: time.Second}, url+"/{id}")

	// when
	_, err := resolver.Resolve(context.Background(), 1)

	// then
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func Test_HTTPResolver_ContextCancellation(t *testing.T) {
	// given: an upstream that never answers in time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	resolver := NewHTTPResolver(server.Client(), server.URL+"/{id}")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// when
	_, err := resolver.Resolve(ctx, 1)

	// then
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
