package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) Client {
	return NewClient("test-key", option.WithBaseURL(baseURL))
}

func TestCreateMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "claude-sonnet-4-5-20250929", payload["model"])
		assert.InDelta(t, 0.1, payload["temperature"], 0.0001)
		assert.NotEmpty(t, payload["system"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_test_001",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": `{"captains": []}`},
			},
			"model":       "claude-sonnet-4-5-20250929",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  10,
				"output_tokens": 5,
			},
		})
	}))
	defer ts.Close()

	temp := 0.1
	resp, err := newTestClient(ts.URL).CreateMessage(context.Background(), MessageRequest{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   1024,
		System:      "Excel roster parser",
		Messages:    []Message{{Role: "user", Content: "Excel verisi"}},
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_test_001", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, `{"captains": []}`, resp.Text())
	assert.Equal(t, int64(10), resp.Usage.InputTokens)
	assert.Equal(t, int64(5), resp.Usage.OutputTokens)
}

func TestCreateMessage_Error(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"type":  "error",
			"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 16,
		Messages:  []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: create message")
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
}

func TestStatusCode_NonAPIError(t *testing.T) {
	assert.Equal(t, 0, StatusCode(assert.AnError))
	assert.Equal(t, 0, StatusCode(nil))
}

func TestToSDKMessages(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "system", Content: "c"},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestMessageResponse_Text(t *testing.T) {
	r := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "{\"a\":"},
		{Type: "thinking", Text: "ignored"},
		{Type: "text", Text: "1}"},
	}}
	assert.Equal(t, `{"a":1}`, r.Text())
}

func TestEstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 18.0, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
	assert.InDelta(t, 4.8, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
	assert.Zero(t, u.EstimateCost("unknown"))
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		TokenUsage{InputTokens: 1}.LogCost("claude-haiku-4-5-20251001", "roster_parse")
	})
}
