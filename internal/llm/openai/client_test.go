package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, model string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient("test-key", model, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.endpoint = server.URL
	return client
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", 0); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := NewClient("k", " ", 0); err == nil {
		t.Fatalf("expected error without model")
	}
}

func TestCompleteSendsPromptAndReturnsContent(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, "gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer key")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"atsScore\":80} "}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	})

	reply, err := client.Complete(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != `{"atsScore":80}` {
		t.Fatalf("unexpected reply %q", reply)
	}
	if got["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", got["model"])
	}
	if _, ok := got["temperature"]; !ok {
		t.Fatalf("expected temperature for non gpt-5 models")
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 1 || !strings.Contains(msgs[0].(map[string]any)["content"].(string), "analyze this") {
		t.Fatalf("unexpected messages %v", got["messages"])
	}
}

func TestCompleteOmitsTemperatureForGPT5(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, "gpt-5-mini", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})
	if _, err := client.Complete(context.Background(), "p"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok := got["temperature"]; ok {
		t.Fatalf("expected temperature omitted for gpt-5")
	}
}

func TestCompleteSurfacesProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down","type":"rate_limit"}}`, want: "slow down"},
		{name: "non json", status: http.StatusBadGateway, body: `upstream down`, want: "502"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, want: "missing choices"},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`, want: "empty content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "gpt-4o-mini", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Complete(context.Background(), "p")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
