package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/prepkit/internal/model"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "Explain channels."}
  }]
}`

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider("", "", ""); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestOpenAIComplete_Success(t *testing.T) {
	var gotAuth string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("my-secret-key", srv.URL, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	got, err := p.Complete(context.Background(), "ask")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Explain channels." {
		t.Errorf("got %q", got)
	}
	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if n := len(gotReq.Messages); n != 2 || gotReq.Messages[1].Content != "ask" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestOpenAIComplete_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("k", srv.URL, "")
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	_, err = p.Complete(context.Background(), "ask")
	if model.ErrorKind(err) != "backend" {
		t.Errorf("ErrorKind = %q, want backend (err=%v)", model.ErrorKind(err), err)
	}
}
