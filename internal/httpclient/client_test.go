package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	ctx := WithProvider(context.Background(), "OpenAI")
	assert.Equal(t, "OpenAI", Provider(ctx))
	assert.Empty(t, Provider(context.Background()))
}

func TestWrapClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := WrapClient(srv.Client())
	req, err := http.NewRequestWithContext(WithProvider(context.Background(), "Test"), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
