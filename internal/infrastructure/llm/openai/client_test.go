package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/infrastructure/resilience"
)

func newServer(t *testing.T, handler func(w http.ResponseWriter, payload map[string]any)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		handler(w, payload)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func request(model string) domain.CompletionRequest {
	return domain.CompletionRequest{
		Prompt:        "Fix this",
		SystemMessage: "You are an editor",
		Model:         model,
		Credential:    "sk-test",
		Task:          domain.TaskEdit,
	}
}

func TestCompleteParsesSections(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, payload map[string]any) {
		messages, _ := payload["messages"].([]any)
		if len(messages) != 2 {
			t.Errorf("expected system and user messages, got %d", len(messages))
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"EDITED TEXT:\nFixed\n\nCHANGES:\nCATEGORY: Grammar\n- One fix"}}]}`))
	})

	client := New(Config{BaseURL: server.URL + "/v1"}, nil)
	resp, err := client.Complete(context.Background(), request("gpt-4o"))
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "Fixed" || len(resp.Changes) != 2 || resp.Empty {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.ParseTier != "strict" {
		t.Fatalf("expected strict parse tier, got %q", resp.ParseTier)
	}
}

func TestCompleteSelectsParametersByFamily(t *testing.T) {
	var captured map[string]any
	server, _ := newServer(t, func(w http.ResponseWriter, payload map[string]any) {
		captured = payload
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"EDITED TEXT:\nok"}}]}`))
	})
	client := New(Config{BaseURL: server.URL + "/v1", MaxTokens: 1234, Temperature: 0.3}, nil)

	if _, err := client.Complete(context.Background(), request("gpt-4o")); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if captured["max_tokens"] != float64(1234) || captured["temperature"] != 0.3 {
		t.Fatalf("gpt-4o must use max_tokens and temperature, got %#v", captured)
	}
	if _, ok := captured["max_completion_tokens"]; ok {
		t.Fatalf("gpt-4o must not send max_completion_tokens")
	}

	if _, err := client.Complete(context.Background(), request("gpt-5-preview")); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if captured["max_completion_tokens"] != float64(1234) {
		t.Fatalf("gpt-5 must use max_completion_tokens, got %#v", captured)
	}
	if _, ok := captured["temperature"]; ok {
		t.Fatalf("gpt-5 must not send temperature")
	}
	if captured["model"] != "gpt-5" {
		t.Fatalf("expected alias to resolve to gpt-5, got %v", captured["model"])
	}
}

func TestCompleteBlankContentIsSoftFailure(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	})
	client := New(Config{BaseURL: server.URL + "/v1"}, nil)

	resp, err := client.Complete(context.Background(), request("gpt-4o"))
	if err != nil {
		t.Fatalf("expected no error for blank content, got %v", err)
	}
	if !resp.Empty || resp.Text == "" {
		t.Fatalf("expected placeholder response, got %#v", resp)
	}
}

func TestCompleteSurfacesVendorError(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	})
	client := New(Config{BaseURL: server.URL + "/v1"}, nil)

	_, err := client.Complete(context.Background(), request("gpt-4o"))
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if transportErr.StatusCode != http.StatusTooManyRequests || transportErr.Message != "Rate limit reached" {
		t.Fatalf("unexpected transport error: %#v", transportErr)
	}
	if !errors.Is(err, domain.ErrTransport) || !errors.Is(err, domain.ErrTemporary) {
		t.Fatalf("expected transport and temporary kinds, got %v", err)
	}
}

func TestCompleteRejectsBadCredentialWithoutCalling(t *testing.T) {
	server, calls := newServer(t, func(w http.ResponseWriter, _ map[string]any) {})
	client := New(Config{BaseURL: server.URL + "/v1"}, nil)

	for _, credential := range []string{"", "   ", "Error: invalid key", "undefined", "sk test"} {
		req := request("gpt-4o")
		req.Credential = credential
		_, err := client.Complete(context.Background(), req)
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Fatalf("credential %q: expected configuration error, got %v", credential, err)
		}
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Fatalf("expected zero network calls, got %d", *calls)
	}
}

func TestCompleteDoesNotRetry(t *testing.T) {
	server, calls := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := New(Config{BaseURL: server.URL + "/v1"}, resilience.NewExecutor(resilience.ProviderConfig()))

	if _, err := client.Complete(context.Background(), request("gpt-4o")); err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", *calls)
	}
}
