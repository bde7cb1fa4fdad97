package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetruGlt/StatesOfTheWorld/internal/config"
)

func testConfig(baseURL string) config.SourceConfig {
	return config.SourceConfig{
		BaseURL:        baseURL,
		UserAgent:      "StatesOfTheWorldBot/1.0",
		TimeoutSeconds: 5,
		RatePerSecond:  100,
		MaxRetries:     0,
	}
}

func TestGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/wiki/Romania" {
			_, _ = w.Write([]byte("<html><h1>Romania</h1></html>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	body, err := client.Get(context.Background(), "/wiki/Romania")
	require.NoError(t, err)
	assert.Contains(t, body, "Romania")
	assert.Equal(t, "StatesOfTheWorldBot/1.0", gotUA)
}

func TestGetBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.Get(context.Background(), "/wiki/Narnia")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "/wiki/Narnia", statusErr.Path)
}

func TestGetTransportFailure(t *testing.T) {
	// Connecting to a closed server must surface a transport error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.Get(context.Background(), "/wiki/Romania")
	assert.Error(t, err)
}

func TestGetCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/wiki/Romania")
	assert.Error(t, err)
}
