package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agent-console/internal/config"
)

func fakeAPI(t *testing.T, handler func(body map[string]any) (int, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, resp := handler(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	return New(config.AIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1/"})
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestComplete(t *testing.T) {
	var got map[string]any
	c := fakeAPI(t, func(body map[string]any) (int, string) {
		got = body
		return http.StatusOK, completion("  {\"summary\":\"ok\"}  ")
	})

	text, err := c.Complete(context.Background(), Request{Instructions: "sys", Input: "user", JSON: true})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != `{"summary":"ok"}` {
		t.Errorf("text = %q", text)
	}
	if got["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", got["model"])
	}
	rf, ok := got["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v", got["response_format"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", got["messages"])
	}
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`},
		{"blank content", http.StatusOK, completion("   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fakeAPI(t, func(map[string]any) (int, string) { return tt.status, tt.body })
			if _, err := c.Complete(context.Background(), Request{Input: "x"}); err == nil {
				t.Error("Complete() should fail")
			}
		})
	}
}

func TestComplete_EmptyIsSentinel(t *testing.T) {
	c := fakeAPI(t, func(map[string]any) (int, string) { return http.StatusOK, completion("") })
	_, err := c.Complete(context.Background(), Request{Input: "x"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestComplete_RespectsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	c := New(config.AIConfig{APIKey: "sk-test", Model: "m", BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := c.Complete(ctx, Request{Input: "x"}); err == nil {
		t.Error("Complete() should fail after the deadline")
	}
	if time.Since(start) > time.Second {
		t.Error("Complete() did not honour the context deadline")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("ağ", 2); got != "a" {
		t.Errorf("Truncate should not split a rune, got %q", got)
	}
	if got := Truncate("short", 100); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := StripCodeFence(in); got != `{"a":1}` {
		t.Errorf("StripCodeFence = %q", got)
	}
}
