package litellm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Strob0t/DocuCrew/internal/adapter/litellm"
	"github.com/Strob0t/DocuCrew/internal/resilience"
)

func completion(content string) map[string]any {
	return map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4",
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Fatalf("unexpected auth: %q", auth)
		}

		var req litellm.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "gpt-4" || req.Temperature != 0.7 || len(req.Messages) != 2 {
			t.Fatalf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("# Docs"))
	}))
	defer srv.Close()

	client := litellm.NewClient(srv.URL, "test-key", time.Second)
	resp, err := client.ChatCompletion(context.Background(), litellm.ChatRequest{
		Model:       "gpt-4",
		Temperature: 0.7,
		Messages:    []litellm.ChatMessage{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if resp.Content() != "# Docs" {
		t.Fatalf("expected # Docs, got %q", resp.Content())
	}
	if resp.Usage.TotalTokens != 15 {
		t.Fatalf("expected 15 tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestChatCompletionEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("   "))
	}))
	defer srv.Close()

	client := litellm.NewClient(srv.URL, "", time.Second)
	_, err := client.ChatCompletion(context.Background(), litellm.ChatRequest{Model: "gpt-4"})
	if !errors.Is(err, litellm.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestChatCompletionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer srv.Close()

	client := litellm.NewClient(srv.URL, "", time.Second)
	_, err := client.ChatCompletion(context.Background(), litellm.ChatRequest{Model: "gpt-4"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestBreakerOpensOnRepeatedFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := litellm.NewClient(srv.URL, "", time.Second)
	client.SetBreaker(resilience.NewBreaker("litellm", 2, time.Minute))

	for i := 0; i < 2; i++ {
		_, _ = client.Health(context.Background())
	}
	ok, err := client.Health(context.Background())
	if ok || !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got ok=%v err=%v", ok, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok, err := litellm.NewClient(srv.URL, "", time.Second).Health(context.Background())
	if !ok || err != nil {
		t.Fatalf("expected healthy, got ok=%v err=%v", ok, err)
	}
}
