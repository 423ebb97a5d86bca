package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"telegram-chat-gateway/pkg/openai"
)

func newClient(t *testing.T, url string) *openai.Client {
	t.Helper()
	c, err := openai.New(openai.Config{APIKey: "test-key", Model: "test-model"})
	if err != nil {
		t.Fatalf("openai.New failed: %v", err)
	}
	c.SetAPIURL(url)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := openai.New(openai.Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestGenerateContent_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req openai.Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-model" {
			t.Errorf("expected client model injected, got %q", req.Model)
		}

		json.NewEncoder(w).Encode(openai.Response{
			Model: "test-model",
			Choices: []openai.Choice{
				{Message: openai.ChatMessage{Role: "assistant", Content: "hello back"}},
			},
			Usage: openai.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
		})
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	resp, err := c.GenerateContent(context.Background(), &openai.Request{
		Messages: []openai.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if resp.Choices[0].Message.Content != "hello back" {
		t.Errorf("unexpected content %q", resp.Choices[0].Message.Content)
	}
	if resp.Usage.TotalTokens != 5 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}
}

func TestGenerateContent_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	_, err := c.GenerateContent(context.Background(), &openai.Request{
		Messages: []openai.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Incorrect API key provided" {
		t.Errorf("expected message from error envelope, got %q", apiErr.Message)
	}
}

func TestGenerateContent_NetworkError(t *testing.T) {
	c := newClient(t, "http://invalid-url.local:1234")
	_, err := c.GenerateContent(context.Background(), &openai.Request{
		Messages: []openai.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Error("expected network failure")
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		t.Error("network failures must not be classified as API errors")
	}
}
