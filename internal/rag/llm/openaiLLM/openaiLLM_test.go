package openaiLLM_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/internal/rag/llm/openaiLLM"
	"github.com/m-mizutani/gt"
	"github.com/openai/openai-go/option"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		format, _ := body["response_format"].(map[string]any)
		gt.Value(t, format["type"]).Equal("json_object")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": []map[string]any{{
				"index": 0, "finish_reason": "stop",
				"message": map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"summary":"fine"}`)
	p, err := openaiLLM.NewOpenAIClient(srv.Client(), "gpt-4o-mini", "test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	gt.NoError(t, err).Required()

	out, err := p.Generate(context.Background(), llm.FallbackRequest("What is an NDA?", "", ""))
	gt.NoError(t, err).Required()
	gt.Value(t, out).Equal(`{"summary":"fine"}`)
}

func TestGenerate_ServerErrorIsTransient(t *testing.T) {
	srv := chatServer(t, http.StatusBadGateway, "")
	p, err := openaiLLM.NewOpenAIClient(srv.Client(), "gpt-4o-mini", "test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	gt.NoError(t, err).Required()

	_, err = p.Generate(context.Background(), llm.FallbackRequest("What is an NDA?", "", ""))
	gt.Error(t, err).Is(contractModel.ErrTransientProvider)
}
