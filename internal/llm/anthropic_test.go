package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ebarkova/lede/internal/model"
)

func anthropicVerdictHandler(t *testing.T, verdictJSON string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Error("Missing API key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Missing version header")
		}

		resp := anthropicResponse{
			ID:    "msg_1",
			Model: "claude-3-5-sonnet-20241022",
		}
		resp.Content = []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{
			{Type: "text", Text: verdictJSON},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestAnthropicProvider_EvaluateClaim_Success(t *testing.T) {
	server := httptest.NewServer(anthropicVerdictHandler(t,
		`{"recommended_action": "claim-is-fine", "action_reasoning": "well grounded"}`))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	verdict, err := provider.EvaluateClaim(context.Background(), promptClaim(), model.NotebookSnapshot{})
	if err != nil {
		t.Fatalf("EvaluateClaim failed: %v", err)
	}
	if verdict.Action != model.ActionClaimIsFine {
		t.Errorf("Unexpected action: %s", verdict.Action)
	}
	if verdict.ActionReasoning != "well grounded" {
		t.Errorf("Unexpected reasoning: %q", verdict.ActionReasoning)
	}
}

func TestAnthropicProvider_EvaluateClaim_InvalidVerdict(t *testing.T) {
	server := httptest.NewServer(anthropicVerdictHandler(t, "I think the claim is fine."))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.EvaluateClaim(context.Background(), promptClaim(), model.NotebookSnapshot{})
	if !errors.Is(err, ErrInvalidVerdict) {
		t.Errorf("Expected ErrInvalidVerdict, got %v", err)
	}
}

func TestAnthropicProvider_EvaluateClaim_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.EvaluateClaim(context.Background(), promptClaim(), model.NotebookSnapshot{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "invalid x-api-key") {
		t.Errorf("Expected API error message, got %v", err)
	}
}

func TestAnthropicProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}, nil); err == nil {
		t.Fatal("Expected error without API key")
	}
}
