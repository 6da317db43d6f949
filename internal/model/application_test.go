package model

import (
	"errors"
	"testing"
)

func TestParseChatModel(t *testing.T) {
	for _, m := range ChatModels {
		got, err := ParseChatModel(string(m))
		if err != nil {
			t.Fatalf("ParseChatModel(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("ParseChatModel(%q) = %q", m, got)
		}
	}

	if _, err := ParseChatModel("gpt-2"); err == nil {
		t.Error("expected error for unsupported model")
	}
}

func TestChatModel_NextPrevWrap(t *testing.T) {
	if got := GPT4.Next(); got != GPT35Turbo {
		t.Errorf("GPT4.Next() = %q, want %q", got, GPT35Turbo)
	}
	if got := GPT35Turbo.Prev(); got != GPT4 {
		t.Errorf("GPT35Turbo.Prev() = %q, want %q", got, GPT4)
	}
	if got := GPT35Turbo.Next(); got != GPT35Turbo16k {
		t.Errorf("GPT35Turbo.Next() = %q, want %q", got, GPT35Turbo16k)
	}
	if got := ChatModel("bogus").Next(); got != DefaultChatModel {
		t.Errorf("unknown.Next() = %q, want default", got)
	}
}

func TestChatModel_ContextWindow(t *testing.T) {
	tests := []struct {
		model ChatModel
		want  int
	}{
		{GPT35Turbo, 4096},
		{GPT35Turbo16k, 16384},
		{GPT4, 8192},
	}
	for _, tt := range tests {
		if got := tt.model.ContextWindow(); got != tt.want {
			t.Errorf("%s.ContextWindow() = %d, want %d", tt.model, got, tt.want)
		}
	}
}

func TestHTTPError_UnwrapAndUnauthorized(t *testing.T) {
	inner := errors.New("invalid api key")
	err := error(&HTTPError{StatusCode: 401, Err: inner})

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach wrapped error")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || !httpErr.Unauthorized() {
		t.Errorf("expected unauthorized HTTPError, got %v", err)
	}
	if (&HTTPError{StatusCode: 500}).Unauthorized() {
		t.Error("500 should not be unauthorized")
	}
	if got := (&HTTPError{StatusCode: 502}).Error(); got != "HTTP 502" {
		t.Errorf("Error() = %q", got)
	}
}
