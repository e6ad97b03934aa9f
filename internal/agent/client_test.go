package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

func testClient(url string) *Client {
	return NewClient(url, "key-123", "agent-1", logger.New(logger.LevelOff, nil),
		WithRetry(2, time.Millisecond))
}

func TestClientSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/generate/agent-1", r.URL.Path)
		assert.Equal(t, "production", r.URL.Query().Get("channel"))
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "key-123", r.Header.Get("X-API-Key"))
		assert.Equal(t, "key-123", r.Header.Get("x-lua-api-key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []textMessage{{Type: "text", Text: "bread, milk"}}, body.Messages)
		assert.Equal(t, "s-1", body.SessionID)
		assert.False(t, body.Navigate)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"text":"Here you go","sessionId":"s-2","steps":[]}}`))
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Send(context.Background(), "bread, milk", "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Here you go", resp.Message)
	assert.Equal(t, "s-2", resp.SessionID)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, "steps")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"message":"recovered"}`))
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Send(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Message)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Send(context.Background(), "hi", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAgentUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Send(context.Background(), "hi", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAgentUnavailable))
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"type":"error","textDelta":"Failed to generate agent response"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Send(context.Background(), "hi", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAgentUnavailable))
	assert.Contains(t, err.Error(), "Failed to generate agent response")
}

func TestDecodeResponseTextFields(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"text":"a"}`, "a"},
		{`{"textDelta":"b"}`, "b"},
		{`{"response":"c"}`, "c"},
		{`{"content":"d"}`, "d"},
		{`"plain"`, "plain"},
		{`{}`, "No response received"},
	}
	for _, tt := range tests {
		resp, err := decodeResponse([]byte(tt.raw), "s")
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, resp.Message, tt.raw)
		assert.Equal(t, "s", resp.SessionID)
	}

	_, err := decodeResponse([]byte(`not json`), "")
	assert.Error(t, err)
}

func TestClientHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Send(ctx, "hi", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
