package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-key", "")

	if client == nil {
		t.Fatal("Expected non-nil client")
	}
	if client.model != DefaultModel {
		t.Errorf("Expected default model '%s', got '%s'", DefaultModel, client.model)
	}
	if client.endpoint != DefaultEndpoint {
		t.Errorf("Expected endpoint '%s', got '%s'", DefaultEndpoint, client.endpoint)
	}
	if client.httpClient == nil {
		t.Error("Expected non-nil HTTP client")
	}

	custom := NewClient("test-key", "gpt-4o")
	if custom.model != "gpt-4o" {
		t.Errorf("Expected configured model kept, got '%s'", custom.model)
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var gotReq ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or incorrect Authorization header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("Missing Content-Type header")
		}

		err := json.NewDecoder(r.Body).Decode(&gotReq)
		if err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		resp := ChatResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "hello there"}}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.SetEndpoint(server.URL)

	text, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	}, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if text != "hello there" {
		t.Errorf("Expected 'hello there', got '%s'", text)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("Expected model '%s', got '%s'", DefaultModel, gotReq.Model)
	}
	if gotReq.Temperature != DefaultTemperature {
		t.Errorf("Expected temperature %v, got %v", DefaultTemperature, gotReq.Temperature)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Error("Expected json_object response format requested")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("Expected both messages forwarded, got %v", gotReq.Messages)
	}
}

func TestCompleteNoJSONFormatWhenPlainText(t *testing.T) {
	var gotReq ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		resp := ChatResponse{Choices: []Choice{{Message: Message{Content: "essay text"}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("k", "")
	client.SetEndpoint(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotReq.ResponseFormat != nil {
		t.Error("Expected no response format for plain text requests")
	}
}

func TestCompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("k", "")
	client.SetEndpoint(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	if err == nil {
		t.Fatal("Expected error for 429 response")
	}

	var rateLimit *RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("Expected RateLimitError, got %T: %v", err, err)
	}
	if rateLimit.RetryAfter != 30*time.Second {
		t.Errorf("Expected retry-after 30s, got %s", rateLimit.RetryAfter)
	}
}

func TestCompleteRateLimitedNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("k", "")
	client.SetEndpoint(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, false)

	var rateLimit *RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("Expected RateLimitError, got %v", err)
	}
	if rateLimit.RetryAfter != 0 {
		t.Errorf("Expected zero retry-after, got %s", rateLimit.RetryAfter)
	}
}

func TestCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("k", "")
	client.SetEndpoint(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	if err == nil {
		t.Error("Expected error for 500 response")
	}
	var rateLimit *RateLimitError
	if errors.As(err, &rateLimit) {
		t.Error("Expected 500 to not be classified as rate limiting")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	client := NewClient("k", "")
	client.SetEndpoint(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	if err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestCompleteProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{Error: &APIError{Message: "bad key"}})
	}))
	defer server.Close()

	client := NewClient("k", "")
	client.SetEndpoint(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	if err == nil {
		t.Error("Expected error for provider error body")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if parseRetryAfter("") != 0 {
		t.Error("Expected zero for empty header")
	}
	if parseRetryAfter("junk") != 0 {
		t.Error("Expected zero for non-numeric header")
	}
	if parseRetryAfter("-5") != 0 {
		t.Error("Expected zero for negative header")
	}
	if parseRetryAfter("12") != 12*time.Second {
		t.Errorf("Expected 12s, got %s", parseRetryAfter("12"))
	}
}
