package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/coverforge/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body string) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func testRequest() model.CompletionRequest {
	return model.CompletionRequest{Model: model.GPT4, Prompt: "write a letter", APIKey: "test-key"}
}

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"Dear Hiring Manager..."}}]}`)

	provider := NewOpenAIProvider(srv.URL, client)
	got, err := provider.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Dear Hiring Manager..." {
		t.Errorf("got %q, want %q", got, "Dear Hiring Manager...")
	}
}

func TestComplete_Unauthorized(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)

	provider := NewOpenAIProvider(srv.URL, client)
	_, err := provider.Complete(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error on 401 response")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected HTTPError 401, got %v", err)
	}
	if httpErr.Err.Error() != "Incorrect API key provided" {
		t.Errorf("detail = %q", httpErr.Err.Error())
	}
}

func TestComplete_RateLimitedCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, srv.Client())
	_, err := provider.Complete(context.Background(), testRequest())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", httpErr.RetryAfter)
	}
	if httpErr.Err.Error() != "slow down" {
		t.Errorf("detail = %q, want raw body", httpErr.Err.Error())
	}
}

func TestComplete_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"empty choices", `{"choices":[]}`},
		{"missing choices", `{}`},
		{"null content", `{"choices":[{"message":{"content":null}}]}`},
		{"missing message", `{"choices":[{}]}`},
		{"error object", `{"error":{"message":"model overloaded","type":"server_error"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, client := makeTestServer(t, http.StatusOK, tt.body)
			provider := NewOpenAIProvider(srv.URL, client)
			if _, err := provider.Complete(context.Background(), testRequest()); err == nil {
				t.Fatal("expected error for malformed body")
			}
		})
	}
}

func TestComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	provider := NewOpenAIProvider(url, &http.Client{Timeout: time.Second})
	if _, err := provider.Complete(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error when server is unreachable")
	}
}

func TestComplete_SendsWireContract(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotType   string
		gotBody   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL+"/", srv.Client())
	req := model.CompletionRequest{Model: model.GPT35Turbo16k, Prompt: "the prompt", APIKey: "my-secret-key"}
	if _, err := provider.Complete(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/chat/completions" {
		t.Errorf("request = %s %s, want POST /chat/completions", gotMethod, gotPath)
	}
	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotBody["model"] != "gpt-3.5-turbo-16k" {
		t.Errorf("model = %v", gotBody["model"])
	}
	temp, ok := gotBody["temperature"]
	if !ok || temp != float64(0) {
		t.Errorf("temperature = %v (present=%v), want explicit 0", temp, ok)
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages = %v, want exactly one", gotBody["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "the prompt" {
		t.Errorf("message = %v", msg)
	}
}
