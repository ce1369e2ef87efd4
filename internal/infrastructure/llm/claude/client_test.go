package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func messageBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-sonnet-4-5-20250929",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"usage":       map[string]any{"input_tokens": 10, "output_tokens": 20},
	})
	return string(body)
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, payload map[string]any)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("X-Api-Key"); got != "sk-ant-test" {
			t.Errorf("unexpected api key header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, payload)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func request(model string) domain.CompletionRequest {
	return domain.CompletionRequest{
		Prompt:        "Übersetze das",
		SystemMessage: "You are a translator",
		Model:         model,
		Credential:    "sk-ant-test",
		Task:          domain.TaskTranslate,
	}
}

func TestCompleteUsesMessagesAPI(t *testing.T) {
	var captured map[string]any
	server, _ := newServer(t, func(w http.ResponseWriter, payload map[string]any) {
		captured = payload
		_, _ = w.Write([]byte(messageBody("TRANSLATED TEXT:\nTranslate that\n\nNOTES:\nCATEGORY: Style\n- Kept imperative")))
	})

	client := New(Config{BaseURL: server.URL}, nil)
	resp, err := client.Complete(context.Background(), request("claude-sonnet-4-5"))
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "Translate that" || len(resp.Changes) != 2 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if captured["model"] != "claude-sonnet-4-5-20250929" {
		t.Fatalf("expected resolved model id, got %v", captured["model"])
	}
	system, _ := captured["system"].([]any)
	if len(system) != 1 {
		t.Fatalf("expected one system block, got %#v", captured["system"])
	}
}

func TestCompleteBlankTextIsSoftFailure(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		_, _ = w.Write([]byte(messageBody("")))
	})
	client := New(Config{BaseURL: server.URL}, nil)

	resp, err := client.Complete(context.Background(), request("claude-sonnet-4-5"))
	if err != nil {
		t.Fatalf("expected soft failure, got %v", err)
	}
	if !resp.Empty {
		t.Fatalf("expected Empty response, got %#v", resp)
	}
}

func TestCompleteMapsVendorErrors(t *testing.T) {
	server, calls := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	})
	client := New(Config{BaseURL: server.URL}, nil)

	_, err := client.Complete(context.Background(), request("claude-sonnet-4-5"))
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if transportErr.StatusCode != 529 || transportErr.Message != "Overloaded" {
		t.Fatalf("unexpected transport error: %#v", transportErr)
	}
	if !errors.Is(err, domain.ErrTemporary) {
		t.Fatalf("overloaded must be temporary, got %v", err)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Fatalf("adapter must not retry, got %d calls", *calls)
	}
}

func TestCompleteRejectsMissingCredential(t *testing.T) {
	server, calls := newServer(t, func(w http.ResponseWriter, _ map[string]any) {})
	client := New(Config{BaseURL: server.URL}, nil)

	req := request("claude-sonnet-4-5")
	req.Credential = ""
	_, err := client.Complete(context.Background(), req)
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Fatalf("expected no network calls")
	}
}

func TestResolveModelPassesUnknownThrough(t *testing.T) {
	if got := ResolveModel("claude-experimental-x"); got != "claude-experimental-x" {
		t.Fatalf("unexpected resolution: %s", got)
	}
	if got := ResolveModel(" Claude-Sonnet-4-5 "); got != "claude-sonnet-4-5-20250929" {
		t.Fatalf("unexpected resolution: %s", got)
	}
}
