package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestOpenAI(t *testing.T, model string, handler http.HandlerFunc) *OpenAICompleter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewOpenAICompleter("test-key", model, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAICompleter: %v", err)
	}
	c.endpoint = server.URL
	return c
}

func TestOpenAICompleteSendsJSONModeRequest(t *testing.T) {
	var body map[string]any
	var auth string
	c := newTestOpenAI(t, "gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"ok\":true} "}}]}`))
	})

	out, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("unexpected content %q", out)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", body["response_format"])
	}
	if _, ok := body["temperature"]; !ok {
		t.Fatalf("expected temperature for non gpt-5 model")
	}
}

func TestOpenAICompleteOmitsTemperatureForGPT5(t *testing.T) {
	var body map[string]any
	c := newTestOpenAI(t, "gpt-5-mini", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})

	if _, err := c.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok := body["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted")
	}
}

func TestOpenAICompleteMapsInsufficientQuota(t *testing.T) {
	c := newTestOpenAI(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	})

	_, err := c.Complete(context.Background(), "hello")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestOpenAICompleteRateLimitIsNotQuota(t *testing.T) {
	c := newTestOpenAI(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	})

	_, err := c.Complete(context.Background(), "hello")
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestNewOpenAICompleterRequiresKey(t *testing.T) {
	if _, err := NewOpenAICompleter(" ", "", 0); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestCleanJSONBlock(t *testing.T) {
	if got := cleanJSONBlock("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Fatalf("unexpected %q", got)
	}
	if !isQuotaMessage("rpc error: code = ResourceExhausted desc = Resource has been exhausted (e.g. check quota).") {
		t.Fatalf("expected quota message to match")
	}
}

func TestDecodeChatNonJSONErrorBody(t *testing.T) {
	_, err := decodeChat(http.StatusBadGateway, []byte("upstream unavailable"))
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected plain status error, got %v", err)
	}
	if _, err := decodeChat(http.StatusOK, []byte(`{"choices":[]}`)); err == nil {
		t.Fatalf("expected error for missing choices")
	}
}
