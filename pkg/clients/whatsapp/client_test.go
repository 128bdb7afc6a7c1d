package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/config"
)

func testConfig(url string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
		BaseURL:       url + "/",
		APIVersion:    "v20.0",
	}
}

func TestSendTextMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(testConfig(srv.URL)).SendTextMessage(context.Background(), SendTextMessageRequest{
		To:   "923001234567",
		Body: strings.Repeat("x", MaxBodyLength+10),
	})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "923001234567", got["to"])
	text := got["text"].(map[string]any)
	assert.Len(t, text["body"], MaxBodyLength)
}

func TestSendTextMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=100")
	assert.Contains(t, err.Error(), "Invalid parameter")
}

func TestSendTextMessage_DoesNotResendAfterServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryable(t *testing.T) {
	dial := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	read := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "read", Err: errors.New("connection reset")}}

	assert.True(t, retryable(nil, dial))
	assert.False(t, retryable(nil, read))
	assert.False(t, retryable(&resty.Response{}, nil))
}

func TestSendTextMessage_RequiresRecipient(t *testing.T) {
	_, err := NewClient(testConfig("http://127.0.0.1:1")).SendTextMessage(context.Background(), SendTextMessageRequest{Body: "hi"})
	assert.Error(t, err)
}
