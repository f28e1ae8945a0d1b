package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/resilience"
)

func TestLLMService_Generate(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"risk_score\": "},{"type":"text","text":"7}"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "audit", driven.GenerateOptions{Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, `{"risk_score": 7}`, out)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
}

func TestLLMService_Generate_ClampsTemperature(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "x", driven.GenerateOptions{Temperature: 1.7})

	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Temperature, 1e-9)
}

func TestLLMService_Generate_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "x", driven.GenerateOptions{})

	require.Error(t, err)
	assert.True(t, resilience.IsPermanent(err))
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestLLMService_Generate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "x", driven.GenerateOptions{})

	assert.ErrorContains(t, err, "no response content")
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}
