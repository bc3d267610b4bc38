package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMClassifierClassify(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"intent_type\": \"show_cart\"}"}}]}`))
	}))
	defer srv.Close()

	c, err := NewLLMClassifier(LLMConfig{URL: srv.URL, APIKey: "secret", Model: "small"})
	require.NoError(t, err)
	defer c.Close()

	raw, err := c.Classify(context.Background(), Request{Message: "show cart"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"intent_type": "show_cart"}`, string(raw))
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "small", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[1].Content, `"message":"show cart"`)
}

func TestLLMClassifierErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"choices": []}`))
		}
	}))
	defer srv.Close()

	down, err := NewLLMClassifier(LLMConfig{URL: srv.URL + "/down", Model: "m"})
	require.NoError(t, err)
	_, err = down.Classify(context.Background(), Request{Message: "hi"})
	assert.ErrorContains(t, err, "status 503")

	empty, err := NewLLMClassifier(LLMConfig{URL: srv.URL + "/empty", Model: "m"})
	require.NoError(t, err)
	_, err = empty.Classify(context.Background(), Request{Message: "hi"})
	assert.ErrorContains(t, err, "empty choices")
}

func TestNewLLMClassifierRequiresURLAndModel(t *testing.T) {
	_, err := NewLLMClassifier(LLMConfig{Model: "m"})
	assert.Error(t, err)
	_, err = NewLLMClassifier(LLMConfig{URL: "http://localhost"})
	assert.Error(t, err)
}
