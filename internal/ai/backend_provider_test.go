package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/prepkit/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func TestBackendComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, generateResponse{Response: "What is a goroutine?"})

	provider := NewBackendProvider(srv.URL, client)
	got, err := provider.Complete(context.Background(), "ask me something")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "What is a goroutine?" {
		t.Errorf("got %q", got)
	}
}

func TestBackendComplete_SendsPrompt(t *testing.T) {
	var gotReq generateRequest
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer srv.Close()

	// trailing slash on the base URL must not double up
	provider := NewBackendProvider(srv.URL+"/", srv.Client())
	if _, err := provider.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != GeneratePath {
		t.Errorf("path = %q, want %q", gotPath, GeneratePath)
	}
	if gotReq.Prompt != "hello" {
		t.Errorf("prompt = %q, want hello", gotReq.Prompt)
	}
}

func TestBackendComplete_ErrorField(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusBadRequest, map[string]string{"error": "No prompt provided"})

	provider := NewBackendProvider(srv.URL, client)
	_, err := provider.Complete(context.Background(), "")

	var backErr *model.BackendError
	if !errors.As(err, &backErr) {
		t.Fatalf("err = %v, want *model.BackendError", err)
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want wrapped *model.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusBadRequest || httpErr.Message != "No prompt provided" {
		t.Errorf("HTTPError = %+v", httpErr)
	}
}

func TestBackendComplete_ServerError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "quota"})

	provider := NewBackendProvider(srv.URL, client)
	_, err := provider.Complete(context.Background(), "x")
	if model.ErrorKind(err) != "backend" {
		t.Errorf("ErrorKind = %q, want backend (err=%v)", model.ErrorKind(err), err)
	}
}

func TestBackendComplete_ErrorFieldWith200(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, map[string]string{"error": "model overloaded"})

	provider := NewBackendProvider(srv.URL, client)
	_, err := provider.Complete(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error when body carries an error field")
	}
}

func TestBackendComplete_EmptyResponse(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, generateResponse{Response: "  "})

	provider := NewBackendProvider(srv.URL, client)
	if _, err := provider.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error on empty response")
	}
}

func TestBackendComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	provider := NewBackendProvider(url, http.DefaultClient)
	_, err := provider.Complete(context.Background(), "x")

	var netErr *model.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want *model.NetworkError", err)
	}
}
