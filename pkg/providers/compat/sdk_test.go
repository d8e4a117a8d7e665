package compat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":0,"model":"test-model",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hi"}}]}`))
	}))
	defer server.Close()

	c := New(testBackend, providers.Config{APIKey: "sk-test", BaseURL: server.URL})
	assert.NoError(t, c.HealthCheck(context.Background()))
}

func TestClient_HealthCheck_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	c := New(testBackend, providers.Config{APIKey: "sk-test", BaseURL: server.URL})
	err := c.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Test health check failed")
}

func TestClient_HealthCheck_NotConfigured(t *testing.T) {
	err := New(testBackend, providers.Config{}).HealthCheck(context.Background())
	assert.True(t, errors.Is(err, providers.ErrNotConfigured))
}

func TestClient_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[` +
			`{"id":"zeta","object":"model","created":0,"owned_by":"x"},` +
			`{"id":"alpha","object":"model","created":0,"owned_by":"x"}]}`))
	}))
	defer server.Close()

	c := New(testBackend, providers.Config{APIKey: "sk-test", BaseURL: server.URL + "/"})
	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, models)
}

func TestClient_ListModels_NotConfigured(t *testing.T) {
	_, err := New(testBackend, providers.Config{}).ListModels(context.Background())
	assert.True(t, providers.IsNotConfigured(err))
}
