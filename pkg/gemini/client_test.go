package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"telegram-chat-gateway/pkg/gemini"
)

func newClient(t *testing.T, url string) *gemini.Client {
	t.Helper()
	c, err := gemini.New(gemini.Config{APIKey: "test-key", Model: "test-model"})
	if err != nil {
		t.Fatalf("gemini.New failed: %v", err)
	}
	c.SetAPIURL(url)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := gemini.New(gemini.Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestGenerateContent_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}

		json.NewEncoder(w).Encode(gemini.GenerateResponse{
			Candidates: []gemini.Candidate{
				{Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: "generated text"}}}},
			},
			UsageMetadata: &gemini.UsageMetadata{PromptTokenCount: 4, CandidatesTokenCount: 2, TotalTokenCount: 6},
		})
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	resp, err := c.GenerateContent(context.Background(), &gemini.GenerateRequest{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: "hello"}}}},
	})
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if resp.Candidates[0].Content.Parts[0].Text != "generated text" {
		t.Errorf("unexpected content %q", resp.Candidates[0].Content.Parts[0].Text)
	}
	if resp.UsageMetadata.TotalTokenCount != 6 {
		t.Errorf("unexpected usage %+v", resp.UsageMetadata)
	}
}

func TestGenerateContent_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL)
	_, err := c.GenerateContent(context.Background(), &gemini.GenerateRequest{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: "hello"}}}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *gemini.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
}
